package usecase_movie

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/kinokreker/core/internal/model"
	usecase_room "github.com/kinokreker/core/internal/usecase/room"
)

var (
	ErrInvalidURL      = errors.New("invalid kinopoisk url")
	ErrMovieNotFound   = errors.New("movie not found")
	ErrDuplicateMovie  = errors.New("movie already exists")
	ErrAlreadyInRoom   = errors.New("movie already added to room")
	ErrRoomNotFound    = errors.New("room not found")
	ErrMetaStatus      = errors.New("kinopoisk responded with error")
	ErrMetaUnavailable = errors.New("kinopoisk unavailable")
	ErrMetaBadPayload  = errors.New("malformed kinopoisk payload")
	ErrInternal        = errors.New("internal error")
)

// FilmMeta is what the external lookup returns for one film.
type FilmMeta struct {
	Title         string
	Year          int
	WebURL        string
	KinopoiskID   int64
	PosterURL     string
	PosterPreview string
}

type MetaProvider interface {
	FilmByID(ctx context.Context, filmID int64) (FilmMeta, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

type MovieRepository interface {
	ByKinopoiskURL(ctx context.Context, kinopoiskURL string) (model.Movie, error)
	ByKinopoiskID(ctx context.Context, kinopoiskID int64) (model.Movie, error)
	Store(ctx context.Context, movie model.Movie) (model.Movie, error)
	AttachToRoom(ctx context.Context, movieID int64, roomID string, addedBy int64) error
}

type PosterStorage interface {
	Save(ctx context.Context, poster model.Poster) (string, error)
}

type RoomProvider interface {
	Get(ctx context.Context, id string) (model.Room, error)
}

type Usecase struct {
	movies  MovieRepository
	posters PosterStorage
	meta    MetaProvider
	rooms   RoomProvider
}

func New(
	movies MovieRepository,
	posters PosterStorage,
	meta MetaProvider,
	rooms RoomProvider,
) *Usecase {
	return &Usecase{
		movies:  movies,
		posters: posters,
		meta:    meta,
		rooms:   rooms,
	}
}

// AddToRoom resolves a kinopoisk page URL to a movie row (ingesting it on
// first sight) and links the movie to the room on behalf of the user.
func (u *Usecase) AddToRoom(ctx context.Context, roomID string, userID int64, rawURL string) (model.Movie, error) {
	normalized := strings.TrimRight(rawURL, "/")
	filmID, err := parseFilmID(normalized)
	if err != nil {
		return model.Movie{}, err
	}

	if _, err := u.rooms.Get(ctx, roomID); err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			return model.Movie{}, ErrRoomNotFound
		}
		return model.Movie{}, errors.Join(ErrInternal, err)
	}

	movie, err := u.movies.ByKinopoiskURL(ctx, normalized)
	switch {
	case err == nil:
	case errors.Is(err, ErrMovieNotFound):
		movie, err = u.ingest(ctx, filmID)
		if err != nil {
			return model.Movie{}, err
		}
	default:
		return model.Movie{}, errors.Join(ErrInternal, err)
	}

	if err := u.movies.AttachToRoom(ctx, movie.ID, roomID, userID); err != nil {
		if errors.Is(err, ErrAlreadyInRoom) {
			return model.Movie{}, ErrAlreadyInRoom
		}
		return model.Movie{}, errors.Join(ErrInternal, err)
	}

	return movie, nil
}

func (u *Usecase) ingest(ctx context.Context, filmID int64) (model.Movie, error) {
	meta, err := u.meta.FilmByID(ctx, filmID)
	if err != nil {
		return model.Movie{}, err
	}

	posterPath, err := u.savePoster(ctx, meta.PosterURL, meta.KinopoiskID, "")
	if err != nil {
		return model.Movie{}, err
	}
	previewPath, err := u.savePoster(ctx, meta.PosterPreview, meta.KinopoiskID, "preview")
	if err != nil {
		return model.Movie{}, err
	}

	stored, err := u.movies.Store(ctx, model.Movie{
		Title:            meta.Title,
		Year:             meta.Year,
		KinopoiskURL:     strings.TrimRight(meta.WebURL, "/"),
		KinopoiskID:      meta.KinopoiskID,
		PosterURL:        &posterPath,
		PosterPreviewURL: &previewPath,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateMovie) {
			// Concurrent ingestion of the same film: the other writer won,
			// reuse its row.
			return u.existing(ctx, meta.KinopoiskID)
		}
		return model.Movie{}, errors.Join(ErrInternal, err)
	}

	return stored, nil
}

func (u *Usecase) existing(ctx context.Context, kinopoiskID int64) (model.Movie, error) {
	movie, err := u.movies.ByKinopoiskID(ctx, kinopoiskID)
	if err != nil {
		return model.Movie{}, errors.Join(ErrInternal, err)
	}
	return movie, nil
}

func (u *Usecase) savePoster(ctx context.Context, imageURL string, kinopoiskID int64, suffix string) (string, error) {
	content, err := u.meta.FetchImage(ctx, imageURL)
	if err != nil {
		return "", err
	}

	key := strconv.FormatInt(kinopoiskID, 10)
	poster := model.Poster{
		Filename: key + suffix + path.Ext(imageURL),
		Content:  content,
		MovieKey: key,
	}

	saved, err := u.posters.Save(ctx, poster)
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return saved, nil
}

// parseFilmID extracts the numeric film id from a kinopoisk film or
// series page URL. No network call is made for a malformed URL.
func parseFilmID(kinopoiskURL string) (int64, error) {
	if !strings.Contains(kinopoiskURL, "kinopoisk.ru/film/") &&
		!strings.Contains(kinopoiskURL, "kinopoisk.ru/series/") {
		return 0, ErrInvalidURL
	}

	parsed, err := url.Parse(kinopoiskURL)
	if err != nil {
		return 0, errors.Join(ErrInvalidURL, err)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	filmID, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: no film id in %q", ErrInvalidURL, kinopoiskURL)
	}

	return filmID, nil
}
