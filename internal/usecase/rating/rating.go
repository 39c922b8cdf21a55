package usecase_rating

import (
	"context"
	"errors"
	"math"

	"github.com/kinokreker/core/internal/model"
	usecase_room "github.com/kinokreker/core/internal/usecase/room"
)

var (
	ErrInvalidScore = errors.New("score must be between 1 and 10 with 0.5 step")
	ErrRoomNotFound = errors.New("room not found")
	ErrNoMoreMovies = errors.New("no more movies")
	ErrInternal     = errors.New("internal error")
)

type RatingRepository interface {
	// Upsert writes the rating atomically: the (user, movie) composite key
	// makes a concurrent duplicate submission an update, never a second row.
	Upsert(ctx context.Context, rating model.Rating) error
	NextUnrated(ctx context.Context, roomID string, userID int64) (model.Movie, error)
}

type RoomProvider interface {
	Get(ctx context.Context, id string) (model.Room, error)
}

type Usecase struct {
	ratings RatingRepository
	rooms   RoomProvider
}

func New(ratings RatingRepository, rooms RoomProvider) *Usecase {
	return &Usecase{
		ratings: ratings,
		rooms:   rooms,
	}
}

// Submit stores the score (nil marks the movie skipped) and returns the
// next unrated movie in the room, or ErrNoMoreMovies.
func (u *Usecase) Submit(ctx context.Context, roomID string, userID, movieID int64, score *float64) (model.Movie, error) {
	if err := validateScore(score); err != nil {
		return model.Movie{}, err
	}

	if _, err := u.rooms.Get(ctx, roomID); err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			return model.Movie{}, ErrRoomNotFound
		}
		return model.Movie{}, errors.Join(ErrInternal, err)
	}

	rating := model.Rating{
		UserID:  userID,
		MovieID: movieID,
		Score:   score,
		Skipped: score == nil,
	}
	if err := u.ratings.Upsert(ctx, rating); err != nil {
		return model.Movie{}, errors.Join(ErrInternal, err)
	}

	return u.next(ctx, roomID, userID)
}

// Next returns the earliest-added movie of the room the user has neither
// scored nor skipped.
func (u *Usecase) Next(ctx context.Context, roomID string, userID int64) (model.Movie, error) {
	if _, err := u.rooms.Get(ctx, roomID); err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			return model.Movie{}, ErrRoomNotFound
		}
		return model.Movie{}, errors.Join(ErrInternal, err)
	}

	return u.next(ctx, roomID, userID)
}

func (u *Usecase) next(ctx context.Context, roomID string, userID int64) (model.Movie, error) {
	movie, err := u.ratings.NextUnrated(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, ErrNoMoreMovies) {
			return model.Movie{}, ErrNoMoreMovies
		}
		return model.Movie{}, errors.Join(ErrInternal, err)
	}
	return movie, nil
}

func validateScore(score *float64) error {
	if score == nil {
		return nil
	}
	s := *score
	if s < 1 || s > 10 || math.Mod(s*2, 1) != 0 {
		return ErrInvalidScore
	}
	return nil
}
