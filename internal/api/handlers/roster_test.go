package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"groupmeet-backend/internal/api/handlers"
	"groupmeet-backend/internal/auth"
	apperrors "groupmeet-backend/internal/errors"
	"groupmeet-backend/internal/mocks"
	"groupmeet-backend/internal/roster"
	"groupmeet-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// RosterHandlerTestSuite tests the discover HTTP surface end to end through
// a real roster manager backed by mocked services
type RosterHandlerTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockGroups      *mocks.MockGroupServiceInterface
	mockMemberships *mocks.MockMembershipServiceInterface
	router          *gin.Engine
	userID          string
}

// SetupTest sets up the test suite
func (suite *RosterHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockGroups = mocks.NewMockGroupServiceInterface(suite.ctrl)
	suite.mockMemberships = mocks.NewMockMembershipServiceInterface(suite.ctrl)
	suite.userID = "user-1"

	manager := roster.NewManager(50, suite.mockGroups, suite.mockMemberships)
	handler := handlers.NewRosterHandler(manager)

	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		if suite.userID != "" {
			c.Set(auth.ContextUserKey, suite.userID)
		}
		c.Next()
	})
	discover := suite.router.Group("/discover")
	discover.GET("", handler.Discover)
	discover.POST("/refresh", handler.Refresh)
	discover.POST("/groups/:id/join", handler.Join)
	discover.POST("/groups/:id/leave", handler.Leave)
}

// TearDownTest cleans up after each test
func (suite *RosterHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// perform executes a request against the test router
func (suite *RosterHandlerTestSuite) perform(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// expectLoad wires the three store fetches one roster load performs
func (suite *RosterHandlerTestSuite) expectLoad(groups []service.GroupResponse, mine []service.MembershipResponse, counts map[uuid.UUID]int64) {
	suite.mockGroups.EXPECT().
		List(gomock.Any(), 1, 50).
		Return(&service.GroupListResponse{Groups: groups, Total: int64(len(groups)), Page: 1, PageSize: 50}, nil).
		Times(1)
	suite.mockMemberships.EXPECT().
		ListByUser(gomock.Any(), "user-1").
		Return(mine, nil).
		Times(1)
	suite.mockMemberships.EXPECT().
		CountByGroups(gomock.Any(), gomock.Any()).
		Return(counts, nil).
		Times(1)
}

// TestDiscover tests the sorted, annotated group list
func (suite *RosterHandlerTestSuite) TestDiscover() {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	big := service.GroupResponse{ID: uuid.New(), Name: "Big Group", CreatedAt: base}
	small := service.GroupResponse{ID: uuid.New(), Name: "Small Group", CreatedAt: base.Add(time.Hour)}

	suite.expectLoad(
		[]service.GroupResponse{small, big},
		[]service.MembershipResponse{{GroupID: small.ID, UserID: "user-1"}},
		map[uuid.UUID]int64{big.ID: 9, small.ID: 1},
	)

	w := suite.perform(http.MethodGet, "/discover")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var got struct {
		Groups []roster.GroupSummary `json:"groups"`
		Sort   string                `json:"sort"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(suite.T(), "popular", got.Sort)
	suite.Len(got.Groups, 2)
	assert.Equal(suite.T(), big.ID, got.Groups[0].ID)
	assert.Equal(suite.T(), int64(9), got.Groups[0].MemberCount)
	assert.False(suite.T(), got.Groups[0].Joined)
	assert.True(suite.T(), got.Groups[1].Joined)
}

// TestDiscoverFilterAndSort tests the q and sort parameters
func (suite *RosterHandlerTestSuite) TestDiscoverFilterAndSort() {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	hikers := service.GroupResponse{ID: uuid.New(), Name: "Alpine Hikers", CreatedAt: base}
	readers := service.GroupResponse{ID: uuid.New(), Name: "Book Club", CreatedAt: base.Add(time.Hour)}

	suite.expectLoad(
		[]service.GroupResponse{hikers, readers},
		nil,
		map[uuid.UUID]int64{hikers.ID: 3, readers.ID: 5},
	)

	w := suite.perform(http.MethodGet, "/discover?q=hikers&sort=name")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var got struct {
		Groups []roster.GroupSummary `json:"groups"`
		Sort   string                `json:"sort"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(suite.T(), "name", got.Sort)
	suite.Len(got.Groups, 1)
	assert.Equal(suite.T(), hikers.ID, got.Groups[0].ID)
}

// TestDiscoverNoIdentity tests that a missing identity maps to 401
func (suite *RosterHandlerTestSuite) TestDiscoverNoIdentity() {
	suite.userID = ""
	w := suite.perform(http.MethodGet, "/discover")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestRefresh tests that refresh reloads the view from the store
func (suite *RosterHandlerTestSuite) TestRefresh() {
	suite.expectLoad(nil, nil, map[uuid.UUID]int64{})

	w := suite.perform(http.MethodPost, "/discover/refresh")
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
}

// TestJoinThroughRoster tests that a discover join patches the served view
func (suite *RosterHandlerTestSuite) TestJoinThroughRoster() {
	group := service.GroupResponse{ID: uuid.New(), Name: "Book Club", CreatedAt: time.Now()}

	suite.expectLoad(
		[]service.GroupResponse{group},
		nil,
		map[uuid.UUID]int64{group.ID: 2},
	)
	suite.mockMemberships.EXPECT().
		Join(gomock.Any(), group.ID, "user-1").
		Return(&service.MembershipResponse{GroupID: group.ID, UserID: "user-1"}, nil).
		Times(1)

	w := suite.perform(http.MethodPost, "/discover/groups/"+group.ID.String()+"/join")
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	// The next discover reflects the join without another store load
	w = suite.perform(http.MethodGet, "/discover")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var got struct {
		Groups []roster.GroupSummary `json:"groups"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Len(got.Groups, 1)
	assert.True(suite.T(), got.Groups[0].Joined)
	assert.Equal(suite.T(), int64(3), got.Groups[0].MemberCount)
}

// TestJoinConflictThroughRoster tests that a repeated join maps to 409
func (suite *RosterHandlerTestSuite) TestJoinConflictThroughRoster() {
	group := service.GroupResponse{ID: uuid.New(), Name: "Book Club", CreatedAt: time.Now()}

	suite.expectLoad(
		[]service.GroupResponse{group},
		[]service.MembershipResponse{{GroupID: group.ID, UserID: "user-1"}},
		map[uuid.UUID]int64{group.ID: 2},
	)

	w := suite.perform(http.MethodPost, "/discover/groups/"+group.ID.String()+"/join")
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestJoinMissingGroupThroughRoster tests that a store-reported missing
// group maps to 404
func (suite *RosterHandlerTestSuite) TestJoinMissingGroupThroughRoster() {
	missing := uuid.New()

	suite.expectLoad(nil, nil, map[uuid.UUID]int64{})
	suite.mockMemberships.EXPECT().
		Join(gomock.Any(), missing, "user-1").
		Return(nil, apperrors.ErrGroupNotFound).
		Times(1)

	w := suite.perform(http.MethodPost, "/discover/groups/"+missing.String()+"/join")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestLeaveThroughRoster tests that a discover leave patches the served view
func (suite *RosterHandlerTestSuite) TestLeaveThroughRoster() {
	group := service.GroupResponse{ID: uuid.New(), Name: "Book Club", CreatedAt: time.Now()}

	suite.expectLoad(
		[]service.GroupResponse{group},
		[]service.MembershipResponse{{GroupID: group.ID, UserID: "user-1"}},
		map[uuid.UUID]int64{group.ID: 2},
	)
	suite.mockMemberships.EXPECT().
		Leave(gomock.Any(), group.ID, "user-1").
		Return(nil).
		Times(1)

	w := suite.perform(http.MethodPost, "/discover/groups/"+group.ID.String()+"/leave")
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.perform(http.MethodGet, "/discover")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var got struct {
		Groups []roster.GroupSummary `json:"groups"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Len(got.Groups, 1)
	assert.False(suite.T(), got.Groups[0].Joined)
	assert.Equal(suite.T(), int64(1), got.Groups[0].MemberCount)
}

// TestRosterHandlerTestSuite runs the test suite
func TestRosterHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RosterHandlerTestSuite))
}
