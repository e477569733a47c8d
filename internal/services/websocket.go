package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/campushub/roombook-backend/internal/models"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Role models.Role
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			// All map writes and channel closes happen here, in the Run
			// goroutine, under the write lock. Broadcast helpers on other
			// goroutines only attempt sends under the read lock.
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastToUser sends a message to a specific user. A client whose Send
// buffer is full misses the message; its removal is the read pump's job via
// the unregister channel, never the broadcaster's.
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
			}
		}
	}
}

// BroadcastToModerators sends a message to every connected moderator and
// admin. Slow consumers are skipped, not evicted; see BroadcastToUser.
func (h *Hub) BroadcastToModerators(message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.Role == models.RoleModerator || client.Role == models.RoleAdmin {
			select {
			case client.Send <- message:
			default:
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingRequested notifies moderators that a new request awaits approval
type BookingRequested struct {
	BookingID  uint   `json:"bookingId"`
	RoomNumber int    `json:"roomNumber"`
	From       string `json:"from"`
	To         string `json:"to"`
	FullName   string `json:"fullName"`
}

// BookingStatusChanged notifies the owner of an approval or rejection
type BookingStatusChanged struct {
	BookingID uint   `json:"bookingId"`
	Status    string `json:"status"`
}

// ConflictResolved notifies both owners of a resolution outcome
type ConflictResolved struct {
	ApprovedID uint `json:"approvedId"`
	RejectedID uint `json:"rejectedId"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role models.Role) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// The stream is server-push only; inbound frames are drained and ignored.
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendBookingRequested pushes a new-request event to moderators and admins
func (hub *Hub) SendBookingRequested(event BookingRequested) {
	message := WebSocketMessage{
		Type: "booking_requested",
		Data: event,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling booking requested event: %v", err)
		return
	}

	hub.BroadcastToModerators(data)
}

// SendBookingStatusChanged pushes an approval/rejection event to the owner
func (hub *Hub) SendBookingStatusChanged(ownerID uint, event BookingStatusChanged) {
	message := WebSocketMessage{
		Type: "booking_status_changed",
		Data: event,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling booking status event: %v", err)
		return
	}

	hub.BroadcastToUser(ownerID, data)
}

// SendConflictResolved pushes the outcome of a resolution to both owners
func (hub *Hub) SendConflictResolved(approvedOwner, rejectedOwner uint, event ConflictResolved) {
	message := WebSocketMessage{
		Type: "conflict_resolved",
		Data: event,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling conflict resolved event: %v", err)
		return
	}

	hub.BroadcastToUser(approvedOwner, data)
	if rejectedOwner != approvedOwner {
		hub.BroadcastToUser(rejectedOwner, data)
	}
}
