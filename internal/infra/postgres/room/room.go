package infra_postgres_room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kinokreker/core/internal/model"
	usecase_room "github.com/kinokreker/core/internal/usecase/room"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type roomDTO struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	IsPrivate bool   `db:"is_private"`
}

func (d roomDTO) toDomain() model.Room {
	return model.Room{
		ID:        d.ID,
		Name:      d.Name,
		IsPrivate: d.IsPrivate,
	}
}

func (d *Driver) Create(ctx context.Context, room model.Room) error {
	dto := roomDTO{
		ID:        room.ID,
		Name:      room.Name,
		IsPrivate: room.IsPrivate,
	}

	query := `
		INSERT INTO rooms (id, name, is_private)
		VALUES (:id, :name, :is_private)
	`

	_, err := d.db.NamedExecContext(ctx, query, dto)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key") {
			return usecase_room.ErrIDConflict
		}
		return err
	}
	return nil
}

func (d *Driver) ByID(ctx context.Context, id string) (model.Room, error) {
	query := `
		SELECT id, name, is_private
		FROM rooms
		WHERE id = $1
	`

	var dto roomDTO
	err := d.db.GetContext(ctx, &dto, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Room{}, usecase_room.ErrResourceNotFound
		}
		return model.Room{}, fmt.Errorf("failed to load room: %w", err)
	}

	return dto.toDomain(), nil
}

func (d *Driver) AddMember(ctx context.Context, roomID string, userID int64) error {
	query := `
		INSERT INTO room_members (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`

	_, err := d.db.ExecContext(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("failed to add room member: %w", err)
	}
	return nil
}

func (d *Driver) ListByUser(ctx context.Context, userID int64) ([]model.Room, error) {
	query := `
		SELECT r.id, r.name, r.is_private
		FROM rooms r
		JOIN room_members rm ON rm.room_id = r.id
		WHERE rm.user_id = $1
		ORDER BY r.name
	`

	var dtos []roomDTO
	if err := d.db.SelectContext(ctx, &dtos, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	rooms := make([]model.Room, len(dtos))
	for i, dto := range dtos {
		rooms[i] = dto.toDomain()
	}
	return rooms, nil
}

type historyDTO struct {
	ID               int64           `db:"id"`
	Title            string          `db:"title"`
	Year             int             `db:"year"`
	KinopoiskURL     string          `db:"kinopoisk_url"`
	KinopoiskID      int64           `db:"kinopoisk_id"`
	PosterURL        sql.NullString  `db:"poster_url"`
	PosterPreviewURL sql.NullString  `db:"poster_preview_url"`
	AddedDate        time.Time       `db:"added_date"`
	AddedBy          string          `db:"added_by"`
	AvgScore         sql.NullFloat64 `db:"avg_score"`
	MyScore          sql.NullFloat64 `db:"my_score"`
}

type movieScoreDTO struct {
	MovieID  int64           `db:"movie_id"`
	Username string          `db:"username"`
	Score    sql.NullFloat64 `db:"score"`
}

func (d *Driver) History(ctx context.Context, roomID string, userID int64, sort usecase_room.HistorySort) ([]model.HistoryEntry, error) {
	var order string
	switch sort {
	case usecase_room.SortByMyRating:
		order = "my.score DESC NULLS LAST"
	case usecase_room.SortByAvgRating:
		order = "avg_score DESC NULLS LAST"
	default:
		order = "mir.added_date DESC"
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.title, m.year, m.kinopoisk_url, m.kinopoisk_id,
		       m.poster_url, m.poster_preview_url,
		       mir.added_date,
		       u.username AS added_by,
		       AVG(r.score) AS avg_score,
		       my.score AS my_score
		FROM movies_in_room mir
		JOIN movies m ON m.id = mir.movie_id
		JOIN users u ON u.id = mir.added_by
		LEFT JOIN ratings r ON r.movie_id = m.id
		LEFT JOIN ratings my ON my.movie_id = m.id AND my.user_id = $2
		WHERE mir.room_id = $1
		GROUP BY m.id, mir.added_date, u.username, my.score
		ORDER BY %s
	`, order)

	var dtos []historyDTO
	if err := d.db.SelectContext(ctx, &dtos, query, roomID, userID); err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	scores, err := d.roomScores(ctx, roomID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.HistoryEntry, len(dtos))
	for i, dto := range dtos {
		movie := model.Movie{
			ID:           dto.ID,
			Title:        dto.Title,
			Year:         dto.Year,
			KinopoiskURL: dto.KinopoiskURL,
			KinopoiskID:  dto.KinopoiskID,
		}
		if dto.PosterURL.Valid {
			movie.PosterURL = &dto.PosterURL.String
		}
		if dto.PosterPreviewURL.Valid {
			movie.PosterPreviewURL = &dto.PosterPreviewURL.String
		}

		entry := model.HistoryEntry{
			Movie:     movie,
			AddedDate: dto.AddedDate,
			AddedBy:   dto.AddedBy,
			Scores:    scores[dto.ID],
		}
		if dto.AvgScore.Valid {
			entry.AvgScore = &dto.AvgScore.Float64
		}
		if dto.MyScore.Valid {
			entry.MyScore = &dto.MyScore.Float64
		}
		entries[i] = entry
	}

	return entries, nil
}

// roomScores loads all non-null scores of the room's movies in one query
// and groups them by movie.
func (d *Driver) roomScores(ctx context.Context, roomID string) (map[int64][]model.UserScore, error) {
	query := `
		SELECT r.movie_id, u.username, r.score
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		JOIN movies_in_room mir ON mir.movie_id = r.movie_id
		WHERE mir.room_id = $1 AND r.score IS NOT NULL
		ORDER BY r.score DESC
	`

	var dtos []movieScoreDTO
	if err := d.db.SelectContext(ctx, &dtos, query, roomID); err != nil {
		return nil, fmt.Errorf("failed to query room scores: %w", err)
	}

	scores := make(map[int64][]model.UserScore, len(dtos))
	for _, dto := range dtos {
		us := model.UserScore{Username: dto.Username}
		if dto.Score.Valid {
			us.Score = &dto.Score.Float64
		}
		scores[dto.MovieID] = append(scores[dto.MovieID], us)
	}
	return scores, nil
}
