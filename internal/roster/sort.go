package roster

import (
	"sort"
	"strings"

	"groupmeet-backend/internal/service"

	"github.com/google/uuid"
)

// SortMode selects the ordering of the visible group list
type SortMode string

const (
	// SortPopular orders by member count, largest first
	SortPopular SortMode = "popular"
	// SortNewest orders by creation time, newest first
	SortNewest SortMode = "newest"
	// SortName orders alphabetically by name, case-insensitive
	SortName SortMode = "name"
)

// ParseSortMode maps a query parameter to a sort mode, defaulting to popular
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortNewest:
		return SortNewest
	case SortName:
		return SortName
	default:
		return SortPopular
	}
}

// GroupSummary is one row of the visible list: the group plus its derived
// count and the acting user's joined flag
type GroupSummary struct {
	service.GroupResponse
	MemberCount int64 `json:"member_count"`
	Joined      bool  `json:"joined"`
}

// Visible filters and sorts the loaded view in memory. It is a pure
// function of the snapshot: no store fetches, no mutation of roster state.
// The filter is a case-insensitive substring match over name and
// description.
func (r *Roster) Visible(mode SortMode, filter string) []GroupSummary {
	r.mu.Lock()
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
	r.mu.Unlock()

	summaries := make([]GroupSummary, 0, len(groups))
	needle := strings.ToLower(filter)
	for _, g := range groups {
		if needle != "" &&
			!strings.Contains(strings.ToLower(g.Name), needle) &&
			!strings.Contains(strings.ToLower(g.Description), needle) {
			continue
		}
		_, joined := mine[g.ID]
		summaries = append(summaries, GroupSummary{
			GroupResponse: g,
			MemberCount:   counts[g.ID],
			Joined:        joined,
		})
	}

	switch mode {
	case SortNewest:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		})
	case SortName:
		sort.SliceStable(summaries, func(i, j int) bool {
			return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
		})
	default:
		// Popular; equal counts fall back to newest first
		sort.SliceStable(summaries, func(i, j int) bool {
			if summaries[i].MemberCount != summaries[j].MemberCount {
				return summaries[i].MemberCount > summaries[j].MemberCount
			}
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		})
	}

	return summaries
}
