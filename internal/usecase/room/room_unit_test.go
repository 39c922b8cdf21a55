package usecase_room

import (
	"context"
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kinokreker/core/internal/model"
)

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) Create(ctx context.Context, room model.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepositoryMock) ByID(ctx context.Context, id string) (model.Room, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Room), args.Error(1)
}

func (m *RoomRepositoryMock) AddMember(ctx context.Context, roomID string, userID int64) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *RoomRepositoryMock) ListByUser(ctx context.Context, userID int64) ([]model.Room, error) {
	args := m.Called(ctx, userID)
	if rooms := args.Get(0); rooms != nil {
		return rooms.([]model.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepositoryMock) History(ctx context.Context, roomID string, userID int64, sort HistorySort) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, roomID, userID, sort)
	if entries := args.Get(0); entries != nil {
		return entries.([]model.HistoryEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

type UsecaseRoomUnitSuite struct {
	suite.Suite
}

type resources struct {
	usecase  *Usecase
	roomRepo *RoomRepositoryMock
	ctx      context.Context
}

func initResources() *resources {
	roomRepo := new(RoomRepositoryMock)
	usecase := New(roomRepo)

	return &resources{
		roomRepo: roomRepo,
		usecase:  usecase,
		ctx:      context.Background(),
	}
}

func validRoomID() string {
	return "abc123def"
}

func (suite *UsecaseRoomUnitSuite) TestCreate(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		setupMocks    func(r *resources)
		expectError   bool
		expectedError error
	}{
		{
			name: "Should create room on first attempt",
			setupMocks: func(r *resources) {
				r.roomRepo.On("Create", r.ctx, mock.AnythingOfType("model.Room")).
					Return(nil).Once()
			},
			expectError: false,
		},
		{
			name: "Should retry on id collision and succeed",
			setupMocks: func(r *resources) {
				r.roomRepo.On("Create", r.ctx, mock.AnythingOfType("model.Room")).
					Return(ErrIDConflict).Once()
				r.roomRepo.On("Create", r.ctx, mock.AnythingOfType("model.Room")).
					Return(nil).Once()
			},
			expectError: false,
		},
		{
			name: "Should give up after the attempt bound",
			setupMocks: func(r *resources) {
				r.roomRepo.On("Create", r.ctx, mock.AnythingOfType("model.Room")).
					Return(ErrIDConflict).Times(createAttempts)
			},
			expectError:   true,
			expectedError: ErrIDsExhausted,
		},
		{
			name: "Should not retry on unrelated repository error",
			setupMocks: func(r *resources) {
				r.roomRepo.On("Create", r.ctx, mock.AnythingOfType("model.Room")).
					Return(errors.New("connection refused")).Once()
			},
			expectError:   true,
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources()
			tc.setupMocks(r)

			room, err := r.usecase.Create(r.ctx, "movie night", true)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Empty(t, room.ID)
			} else {
				assert.NoError(t, err)
				assert.Len(t, room.ID, model.RoomIDLen)
				assert.Equal(t, "movie night", room.Name)
				assert.True(t, room.IsPrivate)
			}
			r.roomRepo.AssertExpectations(t)
		})
	}
}

func (suite *UsecaseRoomUnitSuite) TestCreateGeneratesDistinctIDs(t provider.T) {
	t.Parallel()
	r := initResources()

	seen := map[string]bool{}
	r.roomRepo.On("Create", r.ctx, mock.AnythingOfType("model.Room")).
		Return(nil).Times(50)

	for i := 0; i < 50; i++ {
		room, err := r.usecase.Create(r.ctx, "room", true)
		assert.NoError(t, err)
		assert.False(t, seen[room.ID])
		seen[room.ID] = true
	}
}

func (suite *UsecaseRoomUnitSuite) TestJoin(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		setupMocks    func(r *resources, roomID string)
		expectError   bool
		expectedError error
	}{
		{
			name: "Should join existing room",
			setupMocks: func(r *resources, roomID string) {
				r.roomRepo.On("ByID", r.ctx, roomID).
					Return(model.Room{ID: roomID, Name: "movie night"}, nil).Once()
				r.roomRepo.On("AddMember", r.ctx, roomID, int64(7)).
					Return(nil).Once()
			},
		},
		{
			name: "Should return not found for unknown room",
			setupMocks: func(r *resources, roomID string) {
				r.roomRepo.On("ByID", r.ctx, roomID).
					Return(model.Room{}, ErrResourceNotFound).Once()
			},
			expectError:   true,
			expectedError: ErrResourceNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources()
			roomID := validRoomID()
			tc.setupMocks(r, roomID)

			room, err := r.usecase.Join(r.ctx, roomID, 7)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, roomID, room.ID)
			}
			r.roomRepo.AssertExpectations(t)
		})
	}
}

func (suite *UsecaseRoomUnitSuite) TestHistorySortFallback(t provider.T) {
	t.Parallel()
	r := initResources()
	roomID := validRoomID()

	r.roomRepo.On("ByID", r.ctx, roomID).
		Return(model.Room{ID: roomID}, nil).Once()
	// Unknown sort keys fall back to sorting by add date.
	r.roomRepo.On("History", r.ctx, roomID, int64(7), SortByDate).
		Return([]model.HistoryEntry{}, nil).Once()

	_, err := r.usecase.History(r.ctx, roomID, 7, HistorySort("bogus"))

	assert.NoError(t, err)
	r.roomRepo.AssertExpectations(t)
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseRoomUnitSuite))
}
