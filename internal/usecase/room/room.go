package usecase_room

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/kinokreker/core/internal/model"
)

var (
	ErrIDConflict       = errors.New("room id conflict")
	ErrIDsExhausted     = errors.New("failed to generate unique room id")
	ErrResourceNotFound = errors.New("no such resource")
	ErrInternal         = errors.New("internal error")
)

type HistorySort string

const (
	SortByDate      HistorySort = "date"
	SortByMyRating  HistorySort = "my_rating"
	SortByAvgRating HistorySort = "avg_rating"
)

type RoomRepository interface {
	Create(ctx context.Context, room model.Room) error
	ByID(ctx context.Context, id string) (model.Room, error)
	AddMember(ctx context.Context, roomID string, userID int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Room, error)
	History(ctx context.Context, roomID string, userID int64, sort HistorySort) ([]model.HistoryEntry, error)
}

type Usecase struct {
	rooms RoomRepository
}

func New(rooms RoomRepository) *Usecase {
	return &Usecase{rooms: rooms}
}

// Assuming that generated ids can conflict.
// Retrying...
const createAttempts = 5

func (u *Usecase) Create(ctx context.Context, name string, isPrivate bool) (model.Room, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		room := model.Room{
			ID:        u.buildRoomID(),
			Name:      name,
			IsPrivate: isPrivate,
		}
		err := u.rooms.Create(ctx, room)
		if err == nil {
			return room, nil
		}
		if errors.Is(err, ErrIDConflict) {
			continue
		}
		return model.Room{}, errors.Join(ErrInternal, err)
	}

	return model.Room{}, ErrIDsExhausted
}

func (u *Usecase) buildRoomID() string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	var builder strings.Builder
	builder.Grow(model.RoomIDLen)
	for i := 0; i < model.RoomIDLen; i++ {
		builder.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}

	return builder.String()
}

func (u *Usecase) Get(ctx context.Context, id string) (model.Room, error) {
	room, err := u.rooms.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return model.Room{}, ErrResourceNotFound
		}
		return model.Room{}, errors.Join(ErrInternal, err)
	}
	return room, nil
}

// Join is idempotent: joining a room twice is not an error.
func (u *Usecase) Join(ctx context.Context, roomID string, userID int64) (model.Room, error) {
	room, err := u.Get(ctx, roomID)
	if err != nil {
		return model.Room{}, err
	}

	if err := u.rooms.AddMember(ctx, roomID, userID); err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}

	return room, nil
}

func (u *Usecase) ListForUser(ctx context.Context, userID int64) ([]model.Room, error) {
	rooms, err := u.rooms.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return rooms, nil
}

func (u *Usecase) History(ctx context.Context, roomID string, userID int64, sort HistorySort) ([]model.HistoryEntry, error) {
	switch sort {
	case SortByMyRating, SortByAvgRating:
	default:
		sort = SortByDate
	}

	if _, err := u.Get(ctx, roomID); err != nil {
		return nil, err
	}

	entries, err := u.rooms.History(ctx, roomID, userID, sort)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return entries, nil
}
