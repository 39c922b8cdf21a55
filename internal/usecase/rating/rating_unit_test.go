package usecase_rating

import (
	"context"
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kinokreker/core/internal/model"
	usecase_room "github.com/kinokreker/core/internal/usecase/room"
)

type RatingRepositoryMock struct {
	mock.Mock
}

func (m *RatingRepositoryMock) Upsert(ctx context.Context, rating model.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *RatingRepositoryMock) NextUnrated(ctx context.Context, roomID string, userID int64) (model.Movie, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Get(0).(model.Movie), args.Error(1)
}

type RoomProviderMock struct {
	mock.Mock
}

func (m *RoomProviderMock) Get(ctx context.Context, id string) (model.Room, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Room), args.Error(1)
}

type UsecaseRatingUnitSuite struct {
	suite.Suite
}

type resources struct {
	usecase    *Usecase
	ratingRepo *RatingRepositoryMock
	roomProv   *RoomProviderMock
	ctx        context.Context
}

func initResources() *resources {
	ratingRepo := new(RatingRepositoryMock)
	roomProv := new(RoomProviderMock)

	return &resources{
		usecase:    New(ratingRepo, roomProv),
		ratingRepo: ratingRepo,
		roomProv:   roomProv,
		ctx:        context.Background(),
	}
}

func scoreOf(v float64) *float64 {
	return &v
}

func (suite *UsecaseRatingUnitSuite) TestValidateScore(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		score   *float64
		isValid bool
	}{
		{name: "Nil score marks a skip and is valid", score: nil, isValid: true},
		{name: "Lower bound", score: scoreOf(1), isValid: true},
		{name: "Upper bound", score: scoreOf(10), isValid: true},
		{name: "Half step", score: scoreOf(7.5), isValid: true},
		{name: "Below lower bound", score: scoreOf(0.5), isValid: false},
		{name: "Above upper bound", score: scoreOf(10.5), isValid: false},
		{name: "Zero", score: scoreOf(0), isValid: false},
		{name: "Negative", score: scoreOf(-3), isValid: false},
		{name: "Off-grid fraction", score: scoreOf(7.3), isValid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			err := validateScore(tc.score)

			if tc.isValid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidScore)
			}
		})
	}
}

func (suite *UsecaseRatingUnitSuite) TestSubmit(t provider.T) {
	t.Parallel()

	const (
		roomID  = "abc123def"
		userID  = int64(7)
		movieID = int64(42)
	)

	nextMovie := model.Movie{ID: 43, Title: "Сталкер"}

	testCases := []struct {
		name          string
		score         *float64
		setupMocks    func(r *resources)
		expectError   bool
		expectedError error
		expectedNext  model.Movie
	}{
		{
			name:  "Should store score and return next movie",
			score: scoreOf(8),
			setupMocks: func(r *resources) {
				r.roomProv.On("Get", r.ctx, roomID).
					Return(model.Room{ID: roomID}, nil).Once()
				r.ratingRepo.On("Upsert", r.ctx, model.Rating{
					UserID:  userID,
					MovieID: movieID,
					Score:   scoreOf(8),
					Skipped: false,
				}).Return(nil).Once()
				r.ratingRepo.On("NextUnrated", r.ctx, roomID, userID).
					Return(nextMovie, nil).Once()
			},
			expectedNext: nextMovie,
		},
		{
			name:  "Should mark skip when score is nil",
			score: nil,
			setupMocks: func(r *resources) {
				r.roomProv.On("Get", r.ctx, roomID).
					Return(model.Room{ID: roomID}, nil).Once()
				r.ratingRepo.On("Upsert", r.ctx, model.Rating{
					UserID:  userID,
					MovieID: movieID,
					Score:   nil,
					Skipped: true,
				}).Return(nil).Once()
				r.ratingRepo.On("NextUnrated", r.ctx, roomID, userID).
					Return(nextMovie, nil).Once()
			},
			expectedNext: nextMovie,
		},
		{
			name:  "Should report queue exhaustion after the last rating",
			score: scoreOf(7),
			setupMocks: func(r *resources) {
				r.roomProv.On("Get", r.ctx, roomID).
					Return(model.Room{ID: roomID}, nil).Once()
				r.ratingRepo.On("Upsert", r.ctx, mock.AnythingOfType("model.Rating")).
					Return(nil).Once()
				r.ratingRepo.On("NextUnrated", r.ctx, roomID, userID).
					Return(model.Movie{}, ErrNoMoreMovies).Once()
			},
			expectError:   true,
			expectedError: ErrNoMoreMovies,
		},
		{
			name:  "Should reject invalid score before touching storage",
			score: scoreOf(11),
			setupMocks: func(r *resources) {
			},
			expectError:   true,
			expectedError: ErrInvalidScore,
		},
		{
			name:  "Should map missing room",
			score: scoreOf(5),
			setupMocks: func(r *resources) {
				r.roomProv.On("Get", r.ctx, roomID).
					Return(model.Room{}, usecase_room.ErrResourceNotFound).Once()
			},
			expectError:   true,
			expectedError: ErrRoomNotFound,
		},
		{
			name:  "Should wrap repository failure",
			score: scoreOf(5),
			setupMocks: func(r *resources) {
				r.roomProv.On("Get", r.ctx, roomID).
					Return(model.Room{ID: roomID}, nil).Once()
				r.ratingRepo.On("Upsert", r.ctx, mock.AnythingOfType("model.Rating")).
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

			movie, err := r.usecase.Submit(r.ctx, roomID, userID, movieID, tc.score)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedNext, movie)
			}
			r.ratingRepo.AssertExpectations(t)
			r.roomProv.AssertExpectations(t)
		})
	}
}

func (suite *UsecaseRatingUnitSuite) TestNext(t provider.T) {
	t.Parallel()

	const (
		roomID = "abc123def"
		userID = int64(7)
	)

	t.Run("Should return earliest unrated movie", func(t provider.T) {
		t.Parallel()
		r := initResources()

		expected := model.Movie{ID: 1, Title: "Солярис"}
		r.roomProv.On("Get", r.ctx, roomID).
			Return(model.Room{ID: roomID}, nil).Once()
		r.ratingRepo.On("NextUnrated", r.ctx, roomID, userID).
			Return(expected, nil).Once()

		movie, err := r.usecase.Next(r.ctx, roomID, userID)

		assert.NoError(t, err)
		assert.Equal(t, expected, movie)
	})

	t.Run("Should distinguish empty queue from failure", func(t provider.T) {
		t.Parallel()
		r := initResources()

		r.roomProv.On("Get", r.ctx, roomID).
			Return(model.Room{ID: roomID}, nil).Once()
		r.ratingRepo.On("NextUnrated", r.ctx, roomID, userID).
			Return(model.Movie{}, ErrNoMoreMovies).Once()

		_, err := r.usecase.Next(r.ctx, roomID, userID)

		assert.ErrorIs(t, err, ErrNoMoreMovies)
		assert.NotErrorIs(t, err, ErrInternal)
	})
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseRatingUnitSuite))
}
