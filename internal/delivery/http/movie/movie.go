package http_movie

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/kinokreker/core/internal/delivery/http/common"
	http_auth_middleware "github.com/kinokreker/core/internal/delivery/http/middleware/auth"
	http_room "github.com/kinokreker/core/internal/delivery/http/room"
	ws_room "github.com/kinokreker/core/internal/delivery/ws/room"
	usecase_movie "github.com/kinokreker/core/internal/usecase/movie"
)

type Controller struct {
	movies *usecase_movie.Usecase
	auth   *http_auth_middleware.Middleware
	hub    *ws_room.Hub
	logger *slog.Logger
}

func New(
	movies *usecase_movie.Usecase,
	auth *http_auth_middleware.Middleware,
	hub *ws_room.Hub,
) *Controller {
	return &Controller{
		movies: movies,
		auth:   auth,
		hub:    hub,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/rooms/:room_id/movies", c.auth.AuthRequired(), c.add)
}

type AddRequestDTO struct {
	KinopoiskURL string `json:"kinopoisk_url" binding:"required"`
}

// Add добавляет фильм в комнату по ссылке Кинопоиск
// @Summary Добавление фильма в комнату
// @Tags Movies
// @Accept json
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Param request body AddRequestDTO true "Ссылка на фильм"
// @Success 201 {object} http_room.MovieDTO "Фильм добавлен"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Failure 409 {object} http_common.ErrorResponse "Фильм уже в комнате"
// @Failure 422 {object} http_common.ErrorResponse "Некорректная ссылка"
// @Failure 502 {object} http_common.ErrorResponse "Кинопоиск недоступен"
// @Router /rooms/{room_id}/movies [post]
func (c *Controller) add(ctx *gin.Context) {
	roomID := ctx.Param("room_id")

	user, ok := http_auth_middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	var req AddRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	movie, err := c.movies.AddToRoom(ctx, roomID, user.ID, req.KinopoiskURL)
	if err != nil {
		c.logger.Error("failed to add movie",
			slog.String("room_id", roomID),
			slog.String("error", err.Error()))

		switch {
		case errors.Is(err, usecase_movie.ErrInvalidURL):
			ctx.JSON(http.StatusUnprocessableEntity, http_common.ErrorResponse{
				Message: "invalid kinopoisk url",
			})
		case errors.Is(err, usecase_movie.ErrRoomNotFound):
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
		case errors.Is(err, usecase_movie.ErrAlreadyInRoom):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
				Message: "ALREADY_ADDED",
			})
		case errors.Is(err, usecase_movie.ErrMetaBadPayload):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "malformed kinopoisk response",
			})
		case errors.Is(err, usecase_movie.ErrMetaStatus),
			errors.Is(err, usecase_movie.ErrMetaUnavailable):
			ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
				Message: "external API unavailable",
			})
		default:
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
		}
		return
	}

	c.hub.NotifyMovieAdded(roomID, movie.Title, user.Username)

	ctx.JSON(http.StatusCreated, http_room.ToMovieDTO(movie))
}
