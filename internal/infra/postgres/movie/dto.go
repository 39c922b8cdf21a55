package infra_postgres_movie

import (
	"database/sql"

	"github.com/kinokreker/core/internal/model"
)

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

func fromDomain(movie model.Movie) movieDTO {
	dto := movieDTO{
		ID:           movie.ID,
		Title:        movie.Title,
		Year:         movie.Year,
		KinopoiskURL: movie.KinopoiskURL,
		KinopoiskID:  movie.KinopoiskID,
	}
	if movie.PosterURL != nil {
		dto.PosterURL = sql.NullString{String: *movie.PosterURL, Valid: true}
	}
	if movie.PosterPreviewURL != nil {
		dto.PosterPreviewURL = sql.NullString{String: *movie.PosterPreviewURL, Valid: true}
	}
	return dto
}
