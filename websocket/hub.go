package websocket

import (
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room names. Rooms are process-local groups of live connections; nothing
// about membership is persisted, a reconnecting client must resubscribe.
const PrecatoriosRoom = "precatorios"

// UserRoom returns the per-user room every authenticated connection joins
func UserRoom(userID primitive.ObjectID) string {
	return "user:" + userID.Hex()
}

// FolderRoom returns the topic room for a folder
func FolderRoom(folderID string) string {
	return "folder:" + folderID
}

// ProcessRoom returns the topic room for a process feed
func ProcessRoom(processID string) string {
	return "process:" + processID
}

// Event is the wire frame exchanged with clients
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Client represents one connected WebSocket connection. A user may hold
// several clients at once (multiple tabs or devices).
type Client struct {
	ID     string
	UserID primitive.ObjectID
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// Send writes an event frame to the client. gorilla connections allow a
// single concurrent writer, so writes are serialized per client.
func (c *Client) Send(event string, data interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(Event{Event: event, Data: data})
}

// Hub is the connection registry: which users are connected, and which
// connections are in which rooms. It is owned by whoever constructs it,
// not a package-level singleton, so it can be exercised without a real
// transport.
type Hub struct {
	mu      sync.RWMutex
	clients map[primitive.ObjectID]map[string]*Client // userID -> connection id -> client
	rooms   map[string]map[string]*Client             // room -> connection id -> client
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[primitive.ObjectID]map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register adds a client to the user index and joins its per-user room
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	conns, ok := h.clients[client.UserID]
	if !ok {
		conns = make(map[string]*Client)
		h.clients[client.UserID] = conns
	}
	conns[client.ID] = client
	h.mu.Unlock()

	h.Join(client, UserRoom(client.UserID))
}

// Unregister removes a client from every room and from the user index.
// The user's entry disappears together with their last connection.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, members := range h.rooms {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}

	if conns, ok := h.clients[client.UserID]; ok {
		delete(conns, client.ID)
		if len(conns) == 0 {
			delete(h.clients, client.UserID)
		}
	}
}

// Join adds the client to a room
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[client.ID] = client
}

// Leave removes the client from a room
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// InRoom reports whether the client is currently joined to the room
func (h *Hub) InRoom(client *Client, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[room]
	if !ok {
		return false
	}
	_, ok = members[client.ID]
	return ok
}

// Emit delivers an event to every locally-connected client in the room
func (h *Hub) Emit(room, event string, data interface{}) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for _, client := range h.rooms[room] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		if err := client.Send(event, data); err != nil {
			log.Printf("Error writing %s to connection %s: %v", event, client.ID, err)
		}
	}
}

// SendToUser delivers an event to all of a user's open connections
func (h *Hub) SendToUser(userID primitive.ObjectID, event string, data interface{}) error {
	if !h.IsUserOnline(userID) {
		return fmt.Errorf("user not connected")
	}
	h.Emit(UserRoom(userID), event, data)
	return nil
}

// IsUserOnline reports whether the user has at least one open connection
func (h *Hub) IsUserOnline(userID primitive.ObjectID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID]) > 0
}

// ConnectionCount returns the number of open connections for the user
func (h *Hub) ConnectionCount(userID primitive.ObjectID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}

// RoomSize returns the number of connections joined to the room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}
