package infra_postgres_user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kinokreker/core/internal/model"
	usecase_auth "github.com/kinokreker/core/internal/usecase/auth"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type userDTO struct {
	ID          int64          `db:"id"`
	TelegramID  string         `db:"telegram_id"`
	Username    string         `db:"username"`
	CurrentRoom sql.NullString `db:"current_room"`
}

func (d userDTO) toDomain() model.User {
	user := model.User{
		ID:         d.ID,
		TelegramID: d.TelegramID,
		Username:   d.Username,
	}
	if d.CurrentRoom.Valid {
		user.CurrentRoom = &d.CurrentRoom.String
	}
	return user
}

func (d *Driver) ByTelegramID(ctx context.Context, telegramID string) (model.User, error) {
	query := `
		SELECT id, telegram_id, username, current_room
		FROM users
		WHERE telegram_id = $1
	`

	var dto userDTO
	err := d.db.GetContext(ctx, &dto, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, usecase_auth.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to load user: %w", err)
	}

	return dto.toDomain(), nil
}

func (d *Driver) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (telegram_id, username, current_room)
		VALUES ($1, $2, NULL)
		RETURNING id, telegram_id, username, current_room
	`

	var dto userDTO
	err := d.db.GetContext(ctx, &dto, query, user.TelegramID, user.Username)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return dto.toDomain(), nil
}
