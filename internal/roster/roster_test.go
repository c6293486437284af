package roster_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "groupmeet-backend/internal/errors"
	"groupmeet-backend/internal/mocks"
	"groupmeet-backend/internal/roster"
	"groupmeet-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// RosterTestSuite tests the per-user roster reconciliation
type RosterTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockGroups      *mocks.MockGroupServiceInterface
	mockMemberships *mocks.MockMembershipServiceInterface
	ctx             context.Context

	groupA service.GroupResponse
	groupB service.GroupResponse
	groupC service.GroupResponse
}

// SetupTest sets up the test suite
func (suite *RosterTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockGroups = mocks.NewMockGroupServiceInterface(suite.ctrl)
	suite.mockMemberships = mocks.NewMockMembershipServiceInterface(suite.ctrl)
	suite.ctx = context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.groupA = service.GroupResponse{ID: uuid.New(), Name: "Alpine Hikers", Description: "Weekend trails", CreatedAt: base}
	suite.groupB = service.GroupResponse{ID: uuid.New(), Name: "book club", Description: "Monthly reading", CreatedAt: base.Add(time.Hour)}
	suite.groupC = service.GroupResponse{ID: uuid.New(), Name: "Chess Night", Description: "Casual games", CreatedAt: base.Add(2 * time.Hour)}
}

// TearDownTest cleans up after each test
func (suite *RosterTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// newRoster builds a roster for user-1 with the mock services
func (suite *RosterTestSuite) newRoster() *roster.Roster {
	return roster.New("user-1", 50, suite.mockGroups, suite.mockMemberships)
}

// expectLoad wires the three store fetches one Load performs
func (suite *RosterTestSuite) expectLoad(groups []service.GroupResponse, mine []service.MembershipResponse, counts map[uuid.UUID]int64) {
	suite.mockGroups.EXPECT().
		List(suite.ctx, 1, 50).
		Return(&service.GroupListResponse{Groups: groups, Total: int64(len(groups)), Page: 1, PageSize: 50}, nil).
		Times(1)
	suite.mockMemberships.EXPECT().
		ListByUser(suite.ctx, "user-1").
		Return(mine, nil).
		Times(1)
	suite.mockMemberships.EXPECT().
		CountByGroups(suite.ctx, gomock.Any()).
		Return(counts, nil).
		Times(1)
}

// TestLoad tests that one load assembles groups, counts, and the membership set
func (suite *RosterTestSuite) TestLoad() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA, suite.groupB},
		[]service.MembershipResponse{{GroupID: suite.groupB.ID, UserID: "user-1"}},
		map[uuid.UUID]int64{suite.groupA.ID: 5, suite.groupB.ID: 2},
	)

	view, err := r.Snapshot(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), view.Groups, 2)
	assert.Equal(suite.T(), int64(5), view.MemberCounts[suite.groupA.ID])
	_, joined := view.MyMemberships[suite.groupB.ID]
	assert.True(suite.T(), joined)
	_, joined = view.MyMemberships[suite.groupA.ID]
	assert.False(suite.T(), joined)
}

// TestLoadFailurePropagates tests that a directory failure aborts the load
func (suite *RosterTestSuite) TestLoadFailurePropagates() {
	r := suite.newRoster()
	suite.mockGroups.EXPECT().
		List(suite.ctx, 1, 50).
		Return(nil, apperrors.NewStoreError("groups.list", errors.New("connection refused"))).
		Times(1)

	err := r.Load(suite.ctx)
	assert.True(suite.T(), apperrors.IsStore(err))
}

// TestJoinPatchesAfterConfirmation tests that the view changes only once the
// store has confirmed the insert
func (suite *RosterTestSuite) TestJoinPatchesAfterConfirmation() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA},
		nil,
		map[uuid.UUID]int64{suite.groupA.ID: 5},
	)
	suite.mockMemberships.EXPECT().
		Join(suite.ctx, suite.groupA.ID, "user-1").
		Return(&service.MembershipResponse{GroupID: suite.groupA.ID, UserID: "user-1"}, nil).
		Times(1)

	suite.NoError(r.Join(suite.ctx, suite.groupA.ID))

	view, err := r.Snapshot(suite.ctx)
	suite.NoError(err)
	_, joined := view.MyMemberships[suite.groupA.ID]
	assert.True(suite.T(), joined)
	assert.Equal(suite.T(), int64(6), view.MemberCounts[suite.groupA.ID])
}

// TestJoinFailureLeavesViewUntouched tests that a rejected join does not
// leak into the local view
func (suite *RosterTestSuite) TestJoinFailureLeavesViewUntouched() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA},
		nil,
		map[uuid.UUID]int64{suite.groupA.ID: 5},
	)
	suite.mockMemberships.EXPECT().
		Join(suite.ctx, suite.groupA.ID, "user-1").
		Return(nil, apperrors.NewStoreError("memberships.create", errors.New("connection reset"))).
		Times(1)

	err := r.Join(suite.ctx, suite.groupA.ID)
	assert.True(suite.T(), apperrors.IsStore(err))

	view, snapErr := r.Snapshot(suite.ctx)
	suite.NoError(snapErr)
	_, joined := view.MyMemberships[suite.groupA.ID]
	assert.False(suite.T(), joined)
	assert.Equal(suite.T(), int64(5), view.MemberCounts[suite.groupA.ID])
}

// TestJoinAlreadyMember tests the local conflict short circuit: the store is
// not called at all
func (suite *RosterTestSuite) TestJoinAlreadyMember() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA},
		[]service.MembershipResponse{{GroupID: suite.groupA.ID, UserID: "user-1"}},
		map[uuid.UUID]int64{suite.groupA.ID: 5},
	)

	err := r.Join(suite.ctx, suite.groupA.ID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrMembershipExists)
}

// TestLeavePatchesAfterConfirmation tests that leave removes the membership
// and decrements the count only after the store confirms
func (suite *RosterTestSuite) TestLeavePatchesAfterConfirmation() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA},
		[]service.MembershipResponse{{GroupID: suite.groupA.ID, UserID: "user-1"}},
		map[uuid.UUID]int64{suite.groupA.ID: 5},
	)
	suite.mockMemberships.EXPECT().
		Leave(suite.ctx, suite.groupA.ID, "user-1").
		Return(nil).
		Times(1)

	suite.NoError(r.Leave(suite.ctx, suite.groupA.ID))

	view, err := r.Snapshot(suite.ctx)
	suite.NoError(err)
	_, joined := view.MyMemberships[suite.groupA.ID]
	assert.False(suite.T(), joined)
	assert.Equal(suite.T(), int64(4), view.MemberCounts[suite.groupA.ID])
}

// TestLeaveFailureLeavesViewUntouched tests that a failed delete keeps the
// local membership in place
func (suite *RosterTestSuite) TestLeaveFailureLeavesViewUntouched() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA},
		[]service.MembershipResponse{{GroupID: suite.groupA.ID, UserID: "user-1"}},
		map[uuid.UUID]int64{suite.groupA.ID: 5},
	)
	suite.mockMemberships.EXPECT().
		Leave(suite.ctx, suite.groupA.ID, "user-1").
		Return(apperrors.NewStoreError("memberships.delete", errors.New("timeout"))).
		Times(1)

	err := r.Leave(suite.ctx, suite.groupA.ID)
	assert.True(suite.T(), apperrors.IsStore(err))

	view, snapErr := r.Snapshot(suite.ctx)
	suite.NoError(snapErr)
	_, joined := view.MyMemberships[suite.groupA.ID]
	assert.True(suite.T(), joined)
	assert.Equal(suite.T(), int64(5), view.MemberCounts[suite.groupA.ID])
}

// TestLeaveNotMember tests that leaving a group the user is not in succeeds
// without touching counts
func (suite *RosterTestSuite) TestLeaveNotMember() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA},
		nil,
		map[uuid.UUID]int64{suite.groupA.ID: 5},
	)
	suite.mockMemberships.EXPECT().
		Leave(suite.ctx, suite.groupA.ID, "user-1").
		Return(nil).
		Times(1)

	suite.NoError(r.Leave(suite.ctx, suite.groupA.ID))

	view, err := r.Snapshot(suite.ctx)
	suite.NoError(err)
	assert.Equal(suite.T(), int64(5), view.MemberCounts[suite.groupA.ID])
}

// TestJoinThenLeaveRestoresView tests that a join/leave pair nets out to the
// starting view
func (suite *RosterTestSuite) TestJoinThenLeaveRestoresView() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA},
		nil,
		map[uuid.UUID]int64{suite.groupA.ID: 3},
	)
	suite.mockMemberships.EXPECT().
		Join(suite.ctx, suite.groupA.ID, "user-1").
		Return(&service.MembershipResponse{GroupID: suite.groupA.ID, UserID: "user-1"}, nil).
		Times(1)
	suite.mockMemberships.EXPECT().
		Leave(suite.ctx, suite.groupA.ID, "user-1").
		Return(nil).
		Times(1)

	suite.NoError(r.Join(suite.ctx, suite.groupA.ID))
	suite.NoError(r.Leave(suite.ctx, suite.groupA.ID))

	view, err := r.Snapshot(suite.ctx)
	suite.NoError(err)
	_, joined := view.MyMemberships[suite.groupA.ID]
	assert.False(suite.T(), joined)
	assert.Equal(suite.T(), int64(3), view.MemberCounts[suite.groupA.ID])
}

// TestSnapshotIsACopy tests that mutating a snapshot does not leak back
func (suite *RosterTestSuite) TestSnapshotIsACopy() {
	r := suite.newRoster()
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA},
		nil,
		map[uuid.UUID]int64{suite.groupA.ID: 5},
	)

	first, err := r.Snapshot(suite.ctx)
	suite.NoError(err)
	first.MemberCounts[suite.groupA.ID] = 999
	first.MyMemberships[suite.groupA.ID] = struct{}{}
	first.Groups[0].Name = "mutated"

	second, err := r.Snapshot(suite.ctx)
	suite.NoError(err)
	assert.Equal(suite.T(), int64(5), second.MemberCounts[suite.groupA.ID])
	assert.Empty(suite.T(), second.MyMemberships)
	assert.Equal(suite.T(), "Alpine Hikers", second.Groups[0].Name)
}

// loadThree loads all three fixture groups with fixed counts and one joined
func (suite *RosterTestSuite) loadThree(r *roster.Roster) {
	suite.expectLoad(
		[]service.GroupResponse{suite.groupA, suite.groupB, suite.groupC},
		[]service.MembershipResponse{{GroupID: suite.groupB.ID, UserID: "user-1"}},
		map[uuid.UUID]int64{suite.groupA.ID: 10, suite.groupB.ID: 2, suite.groupC.ID: 10},
	)
	suite.NoError(r.Load(suite.ctx))
}

// TestVisiblePopular tests count ordering with a newest-first tiebreak
func (suite *RosterTestSuite) TestVisiblePopular() {
	r := suite.newRoster()
	suite.loadThree(r)

	visible := r.Visible(roster.SortPopular, "")

	suite.Len(visible, 3)
	// A and C tie on count 10; C is newer so it comes first
	assert.Equal(suite.T(), suite.groupC.ID, visible[0].ID)
	assert.Equal(suite.T(), suite.groupA.ID, visible[1].ID)
	assert.Equal(suite.T(), suite.groupB.ID, visible[2].ID)
	assert.True(suite.T(), visible[2].Joined)
	assert.False(suite.T(), visible[0].Joined)
}

// TestVisibleNewest tests creation-time ordering
func (suite *RosterTestSuite) TestVisibleNewest() {
	r := suite.newRoster()
	suite.loadThree(r)

	visible := r.Visible(roster.SortNewest, "")

	suite.Len(visible, 3)
	assert.Equal(suite.T(), suite.groupC.ID, visible[0].ID)
	assert.Equal(suite.T(), suite.groupB.ID, visible[1].ID)
	assert.Equal(suite.T(), suite.groupA.ID, visible[2].ID)
}

// TestVisibleName tests case-insensitive alphabetical ordering
func (suite *RosterTestSuite) TestVisibleName() {
	r := suite.newRoster()
	suite.loadThree(r)

	visible := r.Visible(roster.SortName, "")

	suite.Len(visible, 3)
	// "book club" is lowercase but still sorts between Alpine and Chess
	assert.Equal(suite.T(), suite.groupA.ID, visible[0].ID)
	assert.Equal(suite.T(), suite.groupB.ID, visible[1].ID)
	assert.Equal(suite.T(), suite.groupC.ID, visible[2].ID)
}

// TestVisibleFilter tests the case-insensitive substring filter over name
// and description
func (suite *RosterTestSuite) TestVisibleFilter() {
	r := suite.newRoster()
	suite.loadThree(r)

	byName := r.Visible(roster.SortName, "CHESS")
	suite.Len(byName, 1)
	assert.Equal(suite.T(), suite.groupC.ID, byName[0].ID)

	byDescription := r.Visible(roster.SortName, "reading")
	suite.Len(byDescription, 1)
	assert.Equal(suite.T(), suite.groupB.ID, byDescription[0].ID)

	none := r.Visible(roster.SortName, "pottery")
	assert.Empty(suite.T(), none)
}

// TestVisibleIsPure tests that filtering performs no store calls and leaves
// the roster unchanged. The mock controller fails the test on any
// unexpected service call.
func (suite *RosterTestSuite) TestVisibleIsPure() {
	r := suite.newRoster()
	suite.loadThree(r)

	r.Visible(roster.SortPopular, "chess")
	r.Visible(roster.SortName, "")

	view, err := r.Snapshot(suite.ctx)
	suite.NoError(err)
	assert.Len(suite.T(), view.Groups, 3)
	assert.Equal(suite.T(), int64(10), view.MemberCounts[suite.groupA.ID])
}

// TestParseSortMode tests the query parameter mapping
func (suite *RosterTestSuite) TestParseSortMode() {
	assert.Equal(suite.T(), roster.SortNewest, roster.ParseSortMode("newest"))
	assert.Equal(suite.T(), roster.SortName, roster.ParseSortMode("name"))
	assert.Equal(suite.T(), roster.SortPopular, roster.ParseSortMode("popular"))
	assert.Equal(suite.T(), roster.SortPopular, roster.ParseSortMode(""))
	assert.Equal(suite.T(), roster.SortPopular, roster.ParseSortMode("garbage"))
}

// TestManagerReusesRoster tests that the manager hands back the same roster
// per user
func (suite *RosterTestSuite) TestManagerReusesRoster() {
	manager := roster.NewManager(50, suite.mockGroups, suite.mockMemberships)

	first := manager.ForUser("user-1")
	second := manager.ForUser("user-1")
	other := manager.ForUser("user-2")

	assert.Same(suite.T(), first, second)
	assert.NotSame(suite.T(), first, other)
}

// TestRosterTestSuite runs the test suite
func TestRosterTestSuite(t *testing.T) {
	suite.Run(t, new(RosterTestSuite))
}
