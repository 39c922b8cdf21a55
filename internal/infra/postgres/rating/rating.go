package infra_postgres_rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kinokreker/core/internal/model"
	usecase_rating "github.com/kinokreker/core/internal/usecase/rating"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type ratingDTO struct {
	UserID  int64           `db:"user_id"`
	MovieID int64           `db:"movie_id"`
	Score   sql.NullFloat64 `db:"score"`
	Skipped bool            `db:"skipped"`
}

type movieDTO struct {
	ID               int64          `db:"id"`
	Title            string         `db:"title"`
	Year             int            `db:"year"`
	KinopoiskURL     string         `db:"kinopoisk_url"`
	KinopoiskID      int64          `db:"kinopoisk_id"`
	PosterURL        sql.NullString `db:"poster_url"`
	PosterPreviewURL sql.NullString `db:"poster_preview_url"`
}

func (m movieDTO) toDomain() model.Movie {
	movie := model.Movie{
		ID:           m.ID,
		Title:        m.Title,
		Year:         m.Year,
		KinopoiskURL: m.KinopoiskURL,
		KinopoiskID:  m.KinopoiskID,
	}
	if m.PosterURL.Valid {
		movie.PosterURL = &m.PosterURL.String
	}
	if m.PosterPreviewURL.Valid {
		movie.PosterPreviewURL = &m.PosterPreviewURL.String
	}
	return movie
}

func (d *Driver) Upsert(ctx context.Context, rating model.Rating) error {
	dto := ratingDTO{
		UserID:  rating.UserID,
		MovieID: rating.MovieID,
		Skipped: rating.Skipped,
	}
	if rating.Score != nil {
		dto.Score = sql.NullFloat64{Float64: *rating.Score, Valid: true}
	}

	query := `
		INSERT INTO ratings (user_id, movie_id, score, skipped)
		VALUES (:user_id, :movie_id, :score, :skipped)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			score = EXCLUDED.score,
			skipped = EXCLUDED.skipped
	`

	_, err := d.db.NamedExecContext(ctx, query, dto)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// NextUnrated returns the earliest-added movie of the room the user has no
// score for and did not skip. A row with a NULL score and skipped=false is
// still unrated and is returned again.
func (d *Driver) NextUnrated(ctx context.Context, roomID string, userID int64) (model.Movie, error) {
	query := `
		SELECT m.id, m.title, m.year, m.kinopoisk_url, m.kinopoisk_id,
		       m.poster_url, m.poster_preview_url
		FROM movies_in_room mir
		JOIN movies m ON m.id = mir.movie_id
		LEFT JOIN ratings r ON r.movie_id = m.id AND r.user_id = $2
		WHERE mir.room_id = $1
		  AND r.score IS NULL
		  AND (r.skipped IS NULL OR r.skipped = FALSE)
		ORDER BY mir.added_date ASC
		LIMIT 1
	`

	var dto movieDTO
	err := d.db.GetContext(ctx, &dto, query, roomID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Movie{}, usecase_rating.ErrNoMoreMovies
		}
		return model.Movie{}, fmt.Errorf("failed to query next unrated movie: %w", err)
	}

	return dto.toDomain(), nil
}
