package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jusdesk/jusdesk_backend/config"
	"github.com/jusdesk/jusdesk_backend/middleware"
	"github.com/jusdesk/jusdesk_backend/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UserResolver checks that the token subject still exists
type UserResolver func(ctx context.Context, userID primitive.ObjectID) error

// MongoUserResolver resolves users against the users collection
func MongoUserResolver(db *mongo.Client) UserResolver {
	return func(ctx context.Context, userID primitive.ObjectID) error {
		err := config.GetCollection(db, "users").FindOne(ctx, bson.M{"_id": userID}).Err()
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}
}

// AccessChecker gates topic subscriptions. The real authorization rule for
// folder and process topics is unresolved upstream; AllowAll is the
// placeholder until it is specified.
type AccessChecker func(userID primitive.ObjectID, topic, topicID string) bool

// AllowAll permits every authenticated user to subscribe to any topic
func AllowAll(userID primitive.ObjectID, topic, topicID string) bool {
	return true
}

// Handler owns the websocket endpoint: it authenticates handshakes,
// registers connections with the hub, and routes subscribe events.
type Handler struct {
	hub          *Hub
	secret       string
	resolveUser  UserResolver
	canSubscribe AccessChecker
}

// NewHandler creates a websocket handler
func NewHandler(hub *Hub, secret string, resolveUser UserResolver, canSubscribe AccessChecker) *Handler {
	if canSubscribe == nil {
		canSubscribe = AllowAll
	}
	return &Handler{
		hub:          hub,
		secret:       secret,
		resolveUser:  resolveUser,
		canSubscribe: canSubscribe,
	}
}

// subscribeRequest is the payload of subscribe:folder / subscribe:process
type subscribeRequest struct {
	FolderID  string `json:"folderId,omitempty"`
	ProcessID string `json:"processId,omitempty"`
}

// clientFrame is an incoming client event
type clientFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ExtractToken pulls the bearer token from the handshake: the token query
// parameter or the Authorization header.
func ExtractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// Authenticate verifies the handshake token and resolves the subject user
func (h *Handler) Authenticate(ctx context.Context, r *http.Request) (*middleware.JwtCustomClaims, primitive.ObjectID, error) {
	token := ExtractToken(r)
	if token == "" {
		return nil, primitive.NilObjectID, models.ErrAuthenticationRequired
	}

	claims, err := middleware.ParseToken(token, h.secret)
	if err != nil {
		return nil, primitive.NilObjectID, models.ErrAuthenticationFailed
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, primitive.NilObjectID, models.ErrAuthenticationFailed
	}

	if h.resolveUser != nil {
		if err := h.resolveUser(ctx, userID); err != nil {
			if err == models.ErrNotFound {
				return nil, primitive.NilObjectID, models.ErrNotFound
			}
			return nil, primitive.NilObjectID, err
		}
	}

	return claims, userID, nil
}

// HandleWebSocket upgrades the connection, authenticates it, and runs the
// read loop until disconnect.
func (h *Handler) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	claims, userID, err := h.Authenticate(ctx, c.Request())
	cancel()
	if err != nil {
		// Structured denial instead of a bare close: the client gets an
		// error frame, then the connection is rejected.
		msg := "Authentication failed"
		switch err {
		case models.ErrAuthenticationRequired:
			msg = "Authentication required"
		case models.ErrNotFound:
			msg = "User not found"
		}
		conn.WriteJSON(Event{Event: "error", Data: map[string]string{"message": msg}})
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, msg))
		conn.Close()
		return nil
	}

	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
	}

	h.hub.Register(client)
	log.Printf("WebSocket connected: user=%s conn=%s", claims.UserID, client.ID)

	client.Send("connected", map[string]interface{}{
		"message":   "WebSocket connection established",
		"userId":    claims.UserID,
		"timestamp": time.Now().Format(time.RFC3339),
	})

	go h.readLoop(client)

	return nil
}

func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
		log.Printf("WebSocket disconnected: user=%s conn=%s", client.UserID.Hex(), client.ID)
	}()

	for {
		var frame clientFrame
		if err := client.Conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: user=%s: %v", client.UserID.Hex(), err)
			}
			break
		}

		h.handleFrame(client, frame)
	}
}

// handleFrame routes one client event. Failures emit an error event on the
// connection rather than disconnecting.
func (h *Handler) handleFrame(client *Client, frame clientFrame) {
	switch frame.Event {
	case "subscribe:folder":
		var req subscribeRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil || req.FolderID == "" {
			h.sendError(client, "folderId is required")
			return
		}
		if !h.canSubscribe(client.UserID, "folder", req.FolderID) {
			h.sendError(client, "Access denied to folder "+req.FolderID)
			return
		}
		h.hub.Join(client, FolderRoom(req.FolderID))

	case "subscribe:process":
		var req subscribeRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil || req.ProcessID == "" {
			h.sendError(client, "processId is required")
			return
		}
		if !h.canSubscribe(client.UserID, "process", req.ProcessID) {
			h.sendError(client, "Access denied to process "+req.ProcessID)
			return
		}
		h.hub.Join(client, ProcessRoom(req.ProcessID))

	case "subscribe:precatorios":
		h.hub.Join(client, PrecatoriosRoom)

	default:
		h.sendError(client, "Unknown event: "+frame.Event)
	}
}

func (h *Handler) sendError(client *Client, message string) {
	if err := client.Send("error", map[string]string{"message": message}); err != nil {
		log.Printf("Error writing error event to connection %s: %v", client.ID, err)
	}
}
