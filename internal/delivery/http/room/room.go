package http_room

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/kinokreker/core/internal/delivery/http/common"
	http_auth_middleware "github.com/kinokreker/core/internal/delivery/http/middleware/auth"
	ws_room "github.com/kinokreker/core/internal/delivery/ws/room"
	"github.com/kinokreker/core/internal/model"
	usecase_rating "github.com/kinokreker/core/internal/usecase/rating"
	usecase_room "github.com/kinokreker/core/internal/usecase/room"
)

type Controller struct {
	rooms   *usecase_room.Usecase
	ratings *usecase_rating.Usecase
	auth    *http_auth_middleware.Middleware
	hub     *ws_room.Hub
	logger  *slog.Logger
}

func New(
	rooms *usecase_room.Usecase,
	ratings *usecase_rating.Usecase,
	auth *http_auth_middleware.Middleware,
	hub *ws_room.Hub,
) *Controller {
	return &Controller{
		rooms:   rooms,
		ratings: ratings,
		auth:    auth,
		hub:     hub,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms", c.auth.AuthRequired())
	{
		rooms.POST("", c.create)
		rooms.GET("", c.list)
		rooms.GET("/:room_id", c.detail)
		rooms.POST("/:room_id/members", c.join)
		rooms.GET("/:room_id/history", c.history)
	}
}

type RoomDTO struct {
	ID        string `json:"room_id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

func toRoomDTO(room model.Room) RoomDTO {
	return RoomDTO{
		ID:        room.ID,
		Name:      room.Name,
		IsPrivate: room.IsPrivate,
	}
}

type MovieDTO struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Year             int    `json:"year"`
	KinopoiskURL     string `json:"kinopoisk_url"`
	PosterURL        string `json:"poster_url"`
	PosterPreviewURL string `json:"poster_preview_url,omitempty"`
}

const defaultPoster = "/static/default.jpg"

func ToMovieDTO(movie model.Movie) MovieDTO {
	dto := MovieDTO{
		ID:           movie.ID,
		Title:        movie.Title,
		Year:         movie.Year,
		KinopoiskURL: movie.KinopoiskURL,
		PosterURL:    defaultPoster,
	}
	if movie.PosterURL != nil {
		dto.PosterURL = *movie.PosterURL
	}
	if movie.PosterPreviewURL != nil {
		dto.PosterPreviewURL = *movie.PosterPreviewURL
	}
	return dto
}

type CreateRequestDTO struct {
	Name      string `json:"name" binding:"required"`
	IsPrivate *bool  `json:"is_private"`
}

// Create создает новую комнату
// @Summary Создание комнаты
// @Tags Rooms
// @Accept json
// @Produce json
// @Param request body CreateRequestDTO true "Параметры комнаты"
// @Success 201 {object} RoomDTO "Комната успешно создана"
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Failure 500 {object} http_common.ErrorResponse "Внутренняя ошибка сервера"
// @Router /rooms [post]
func (c *Controller) create(ctx *gin.Context) {
	var req CreateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	isPrivate := true
	if req.IsPrivate != nil {
		isPrivate = *req.IsPrivate
	}

	room, err := c.rooms.Create(ctx, req.Name, isPrivate)
	if err != nil {
		c.logger.Error("failed to create room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusCreated, toRoomDTO(room))
}

// List возвращает комнаты текущего пользователя
// @Summary Список комнат пользователя
// @Tags Rooms
// @Produce json
// @Success 200 {array} RoomDTO
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Router /rooms [get]
func (c *Controller) list(ctx *gin.Context) {
	user, ok := http_auth_middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	rooms, err := c.rooms.ListForUser(ctx, user.ID)
	if err != nil {
		c.logger.Error("failed to list rooms", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, room := range rooms {
		dtos[i] = toRoomDTO(room)
	}
	ctx.JSON(http.StatusOK, dtos)
}

type DetailResponseDTO struct {
	Room         RoomDTO   `json:"room"`
	CurrentMovie *MovieDTO `json:"current_movie"`
}

// Detail возвращает комнату и текущий неоцененный фильм
// @Summary Детали комнаты
// @Tags Rooms
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Success 200 {object} DetailResponseDTO
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Router /rooms/{room_id} [get]
func (c *Controller) detail(ctx *gin.Context) {
	roomID := ctx.Param("room_id")

	user, ok := http_auth_middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	room, err := c.rooms.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
			return
		}
		c.logger.Error("failed to get room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	resp := DetailResponseDTO{Room: toRoomDTO(room)}

	movie, err := c.ratings.Next(ctx, roomID, user.ID)
	switch {
	case err == nil:
		dto := ToMovieDTO(movie)
		resp.CurrentMovie = &dto
	case errors.Is(err, usecase_rating.ErrNoMoreMovies):
	default:
		c.logger.Error("failed to pick next movie", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Join добавляет пользователя в комнату
// @Summary Вступление в комнату
// @Tags Rooms
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Success 200 {object} RoomDTO
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Router /rooms/{room_id}/members [post]
func (c *Controller) join(ctx *gin.Context) {
	roomID := ctx.Param("room_id")

	user, ok := http_auth_middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	room, err := c.rooms.Join(ctx, roomID, user.ID)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
			return
		}
		c.logger.Error("failed to join room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	c.hub.NotifyUserJoined(roomID, user.Username)

	ctx.JSON(http.StatusOK, toRoomDTO(room))
}

type HistoryItemDTO struct {
	Movie     MovieDTO   `json:"movie"`
	AddedDate string     `json:"added_date"`
	AddedBy   string     `json:"added_by"`
	AvgScore  float64    `json:"avg_score"`
	MyScore   *float64   `json:"my_score"`
	Details   []ScoreDTO `json:"details"`
}

type ScoreDTO struct {
	Name  string   `json:"name"`
	Score *float64 `json:"score"`
}

// History возвращает историю фильмов комнаты
// @Summary История комнаты
// @Tags Rooms
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Param sort_by query string false "date | my_rating | avg_rating"
// @Success 200 {array} HistoryItemDTO
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Router /rooms/{room_id}/history [get]
func (c *Controller) history(ctx *gin.Context) {
	roomID := ctx.Param("room_id")
	sortBy := ctx.DefaultQuery("sort_by", string(usecase_room.SortByDate))

	user, ok := http_auth_middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	entries, err := c.rooms.History(ctx, roomID, user.ID, usecase_room.HistorySort(sortBy))
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
			return
		}
		c.logger.Error("failed to load history", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	items := make([]HistoryItemDTO, len(entries))
	for i, entry := range entries {
		items[i] = toHistoryItemDTO(entry)
	}

	ctx.JSON(http.StatusOK, items)
}

func toHistoryItemDTO(entry model.HistoryEntry) HistoryItemDTO {
	item := HistoryItemDTO{
		Movie:     ToMovieDTO(entry.Movie),
		AddedDate: entry.AddedDate.Format("02.01.2006"),
		AddedBy:   entry.AddedBy,
		MyScore:   entry.MyScore,
		Details:   make([]ScoreDTO, 0, len(entry.Scores)),
	}
	if entry.AvgScore != nil {
		item.AvgScore = math.Round(*entry.AvgScore*100) / 100
	}
	for _, score := range entry.Scores {
		item.Details = append(item.Details, ScoreDTO{Name: score.Username, Score: score.Score})
	}
	return item
}
