// Package roster maintains the session-scoped, UI-facing projection of the
// group directory: the visible groups, their member counts, and the acting
// user's membership set. The external store owns all durable state; the
// roster is rebuilt from it on load and patched locally only after a
// mutation is confirmed by the store.
package roster

import (
	"context"
	"sync"

	apperrors "groupmeet-backend/internal/errors"
	"groupmeet-backend/internal/service"

	"github.com/google/uuid"
)

// View is the reconciled tuple consumed by presentation callers. Counts are
// a read optimization and may be stale until the next Load.
type View struct {
	Groups        []service.GroupResponse
	MemberCounts  map[uuid.UUID]int64
	MyMemberships map[uuid.UUID]struct{}
}

// Roster reconciles directory reads and membership mutations for one user.
// It is safe for concurrent use, though a session normally has a single
// writer.
type Roster struct {
	mu          sync.Mutex
	userID      string
	pageSize    int
	groups      service.GroupServiceInterface
	memberships service.MembershipServiceInterface

	loaded        bool
	groupList     []service.GroupResponse
	memberCounts  map[uuid.UUID]int64
	myMemberships map[uuid.UUID]struct{}
}

// New creates a roster for the given user. pageSize bounds how many groups
// one load pulls from the directory.
func New(userID string, pageSize int, groups service.GroupServiceInterface, memberships service.MembershipServiceInterface) *Roster {
	return &Roster{
		userID:        userID,
		pageSize:      pageSize,
		groups:        groups,
		memberships:   memberships,
		memberCounts:  make(map[uuid.UUID]int64),
		myMemberships: make(map[uuid.UUID]struct{}),
	}
}

// Load rebuilds the whole view from the store: the first page of groups,
// the user's membership set, and a batch member count for the loaded
// groups. Any optimistic local state is discarded.
func (r *Roster) Load(ctx context.Context) error {
	list, err := r.groups.List(ctx, 1, r.pageSize)
	if err != nil {
		return err
	}

	memberships, err := r.memberships.ListByUser(ctx, r.userID)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, len(list.Groups))
	for i, g := range list.Groups {
		ids[i] = g.ID
	}
	counts, err := r.memberships.CountByGroups(ctx, ids)
	if err != nil {
		return err
	}

	mine := make(map[uuid.UUID]struct{}, len(memberships))
	for _, m := range memberships {
		mine[m.GroupID] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groupList = list.Groups
	r.memberCounts = counts
	r.myMemberships = mine
	r.loaded = true
	return nil
}

func (r *Roster) ensureLoaded(ctx context.Context) error {
	r.mu.Lock()
	loaded := r.loaded
	r.mu.Unlock()
	if loaded {
		return nil
	}
	return r.Load(ctx)
}

// Join adds the user to a group and, only once the store has confirmed the
// insert, patches the local view: the group enters the membership set and
// its count goes up by one. On any error the view is left untouched.
func (r *Roster) Join(ctx context.Context, groupID uuid.UUID) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	_, already := r.myMemberships[groupID]
	r.mu.Unlock()
	if already {
		return apperrors.ErrMembershipExists
	}

	if _, err := r.memberships.Join(ctx, groupID, r.userID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.myMemberships[groupID] = struct{}{}
	r.memberCounts[groupID]++
	return nil
}

// Leave removes the user from a group. The local view is patched only after
// the store confirms the delete; the count is floored at zero. Leaving a
// group the user is not in succeeds without touching the view.
func (r *Roster) Leave(ctx context.Context, groupID uuid.UUID) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	if err := r.memberships.Leave(ctx, groupID, r.userID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.myMemberships[groupID]; !ok {
		return nil
	}
	delete(r.myMemberships, groupID)
	if r.memberCounts[groupID] > 0 {
		r.memberCounts[groupID]--
	}
	return nil
}

// Snapshot returns a copy of the current view. Mutating the copy does not
// affect the roster.
func (r *Roster) Snapshot(ctx context.Context) (*View, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	groups := make([]service.GroupResponse, len(r.groupList))
	copy(groups, r.groupList)

	counts := make(map[uuid.UUID]int64, len(r.memberCounts))
	for id, c := range r.memberCounts {
		counts[id] = c
	}

	mine := make(map[uuid.UUID]struct{}, len(r.myMemberships))
	for id := range r.myMemberships {
		mine[id] = struct{}{}
	}

	return &View{Groups: groups, MemberCounts: counts, MyMemberships: mine}, nil
}

// Manager hands out one roster per user, created lazily on first use
type Manager struct {
	mu          sync.Mutex
	rosters     map[string]*Roster
	pageSize    int
	groups      service.GroupServiceInterface
	memberships service.MembershipServiceInterface
}

// NewManager creates a roster manager
func NewManager(pageSize int, groups service.GroupServiceInterface, memberships service.MembershipServiceInterface) *Manager {
	return &Manager{
		rosters:     make(map[string]*Roster),
		pageSize:    pageSize,
		groups:      groups,
		memberships: memberships,
	}
}

// ForUser returns the roster for a user, creating it on first access
func (m *Manager) ForUser(userID string) *Roster {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rosters[userID]; ok {
		return r
	}
	r := New(userID, m.pageSize, m.groups, m.memberships)
	m.rosters[userID] = r
	return r
}
