package infra_postgres_movie

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kinokreker/core/internal/model"
	usecase_movie "github.com/kinokreker/core/internal/usecase/movie"
)

type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ByKinopoiskURL(ctx context.Context, kinopoiskURL string) (model.Movie, error) {
	query := `
		SELECT id, title, year, kinopoisk_url, kinopoisk_id, poster_url, poster_preview_url
		FROM movies
		WHERE kinopoisk_url = $1
	`

	var dto movieDTO
	err := r.db.GetContext(ctx, &dto, query, kinopoiskURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Movie{}, usecase_movie.ErrMovieNotFound
		}
		return model.Movie{}, fmt.Errorf("failed to load movie by url: %w", err)
	}

	return dto.toDomain(), nil
}

func (r *Repository) ByKinopoiskID(ctx context.Context, kinopoiskID int64) (model.Movie, error) {
	query := `
		SELECT id, title, year, kinopoisk_url, kinopoisk_id, poster_url, poster_preview_url
		FROM movies
		WHERE kinopoisk_id = $1
	`

	var dto movieDTO
	err := r.db.GetContext(ctx, &dto, query, kinopoiskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Movie{}, usecase_movie.ErrMovieNotFound
		}
		return model.Movie{}, fmt.Errorf("failed to load movie by kinopoisk id: %w", err)
	}

	return dto.toDomain(), nil
}

func (r *Repository) Store(ctx context.Context, movie model.Movie) (model.Movie, error) {
	dto := fromDomain(movie)

	query := `
		INSERT INTO movies (title, year, kinopoisk_url, kinopoisk_id, poster_url, poster_preview_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, year, kinopoisk_url, kinopoisk_id, poster_url, poster_preview_url
	`

	var stored movieDTO
	err := r.db.GetContext(ctx, &stored, query,
		dto.Title,
		dto.Year,
		dto.KinopoiskURL,
		dto.KinopoiskID,
		dto.PosterURL,
		dto.PosterPreviewURL,
	)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key") {
			return model.Movie{}, usecase_movie.ErrDuplicateMovie
		}
		return model.Movie{}, fmt.Errorf("failed to store movie: %w", err)
	}

	return stored.toDomain(), nil
}

func (r *Repository) AttachToRoom(ctx context.Context, movieID int64, roomID string, addedBy int64) error {
	query := `
		INSERT INTO movies_in_room (movie_id, room_id, added_by)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, movieID, roomID, addedBy)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key") {
			return usecase_movie.ErrAlreadyInRoom
		}
		return fmt.Errorf("failed to attach movie to room: %w", err)
	}
	return nil
}
