package ws_room

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	http_auth_middleware "github.com/kinokreker/core/internal/delivery/http/middleware/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The mini-app is embedded in Telegram's webview.
		return true
	},
}

type Controller struct {
	hub    *Hub
	auth   *http_auth_middleware.Middleware
	logger *slog.Logger
}

func NewController(hub *Hub, auth *http_auth_middleware.Middleware) *Controller {
	return &Controller{
		hub:    hub,
		auth:   auth,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rooms/:room_id/events", c.auth.AuthRequired(), c.subscribe)
}

func (c *Controller) subscribe(ctx *gin.Context) {
	roomID := ctx.Param("room_id")

	user, ok := http_auth_middleware.CurrentUser(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade connection", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		hub:      c.hub,
		conn:     conn,
		send:     make(chan Event, 8),
		roomID:   roomID,
		username: user.Username,
	}

	c.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (cl *Client) readPump() {
	defer func() {
		cl.hub.unregister <- cl
		cl.conn.Close()
	}()

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (cl *Client) writePump() {
	defer cl.conn.Close()

	for event := range cl.send {
		if err := cl.conn.WriteJSON(event); err != nil {
			break
		}
	}
}
