package http_rating

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/kinokreker/core/internal/delivery/http/common"
	http_auth_middleware "github.com/kinokreker/core/internal/delivery/http/middleware/auth"
	http_room "github.com/kinokreker/core/internal/delivery/http/room"
	ws_room "github.com/kinokreker/core/internal/delivery/ws/room"
	usecase_rating "github.com/kinokreker/core/internal/usecase/rating"
)

type Controller struct {
	ratings *usecase_rating.Usecase
	auth    *http_auth_middleware.Middleware
	hub     *ws_room.Hub
	logger  *slog.Logger
}

func New(
	ratings *usecase_rating.Usecase,
	auth *http_auth_middleware.Middleware,
	hub *ws_room.Hub,
) *Controller {
	return &Controller{
		ratings: ratings,
		auth:    auth,
		hub:     hub,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/rooms/:room_id/ratings", c.auth.AuthRequired(), c.submit)
}

type SubmitRequestDTO struct {
	MovieID int64 `json:"movie_id" binding:"required"`

	// Nil score marks the movie skipped.
	Score *float64 `json:"score"`
}

type SubmitResponseDTO struct {
	Status  string              `json:"status"`
	HasNext bool                `json:"has_next"`
	Movie   *http_room.MovieDTO `json:"movie,omitempty"`
}

// Submit сохраняет оценку и возвращает следующий неоцененный фильм
// @Summary Оценка фильма
// @Tags Ratings
// @Accept json
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Param request body SubmitRequestDTO true "Оценка"
// @Success 200 {object} SubmitResponseDTO
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Failure 422 {object} http_common.ErrorResponse "Некорректная оценка"
// @Router /rooms/{room_id}/ratings [post]
func (c *Controller) submit(ctx *gin.Context) {
	roomID := ctx.Param("room_id")

	user, ok := http_auth_middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	var req SubmitRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	next, err := c.ratings.Submit(ctx, roomID, user.ID, req.MovieID, req.Score)
	if err != nil && !errors.Is(err, usecase_rating.ErrNoMoreMovies) {
		c.logger.Error("failed to submit rating",
			slog.String("room_id", roomID),
			slog.String("error", err.Error()))

		switch {
		case errors.Is(err, usecase_rating.ErrInvalidScore):
			ctx.JSON(http.StatusUnprocessableEntity, http_common.ErrorResponse{
				Message: err.Error(),
			})
		case errors.Is(err, usecase_rating.ErrRoomNotFound):
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
		default:
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
		}
		return
	}

	c.hub.NotifyRatingSubmitted(roomID, user.Username, req.MovieID)

	resp := SubmitResponseDTO{Status: "success"}
	if err == nil {
		dto := http_room.ToMovieDTO(next)
		resp.HasNext = true
		resp.Movie = &dto
	}

	ctx.JSON(http.StatusOK, resp)
}
