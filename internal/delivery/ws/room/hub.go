package ws_room

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventUserJoined      = "USER_JOINED"
	EventMovieAdded      = "MOVIE_ADDED"
	EventRatingSubmitted = "RATING_SUBMITTED"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan Event
	roomID   string
	username string
}

type roomEvent struct {
	roomID string
	event  Event
}

// Hub fans room events out to the websocket clients of that room.
type Hub struct {
	logger     *slog.Logger
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomEvent
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		logger:     slog.Default(),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomEvent),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case re := <-h.broadcast:
			h.broadcastToRoom(re.roomID, re.event)
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if _, exists := h.rooms[client.roomID]; !exists {
		h.rooms[client.roomID] = make(map[*Client]bool)
	}
	h.rooms[client.roomID][client] = true

	h.logger.Info("client registered",
		"room", client.roomID,
		"username", client.username)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		if roomClients, exists := h.rooms[client.roomID]; exists {
			delete(roomClients, client)
			if len(roomClients) == 0 {
				delete(h.rooms, client.roomID)
			}
		}
	}

	h.logger.Info("client unregistered", "room", client.roomID)
}

func (h *Hub) broadcastToRoom(roomID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomClients, exists := h.rooms[roomID]
	if !exists {
		return
	}

	for client := range roomClients {
		select {
		case client.send <- event:
		default:
			// Evict the slow client fully so a later unregister does not
			// close the channel a second time.
			close(client.send)
			delete(h.clients, client)
			delete(roomClients, client)
		}
	}
	if len(roomClients) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) NotifyUserJoined(roomID string, username string) {
	h.broadcast <- roomEvent{
		roomID: roomID,
		event: Event{
			Type: EventUserJoined,
			Payload: map[string]interface{}{
				"room_id":  roomID,
				"username": username,
			},
		},
	}
}

func (h *Hub) NotifyMovieAdded(roomID string, title string, addedBy string) {
	h.broadcast <- roomEvent{
		roomID: roomID,
		event: Event{
			Type: EventMovieAdded,
			Payload: map[string]interface{}{
				"room_id":  roomID,
				"title":    title,
				"added_by": addedBy,
			},
		},
	}
}

func (h *Hub) NotifyRatingSubmitted(roomID string, username string, movieID int64) {
	h.broadcast <- roomEvent{
		roomID: roomID,
		event: Event{
			Type: EventRatingSubmitted,
			Payload: map[string]interface{}{
				"room_id":   roomID,
				"username":  username,
				"movie_id":  movieID,
				"timestamp": time.Now().Unix(),
			},
		},
	}
}
