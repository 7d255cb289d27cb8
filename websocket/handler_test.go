package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jusdesk/jusdesk_backend/middleware"
	"github.com/jusdesk/jusdesk_backend/models"
)

const testSecret = "handler-test-secret"

func signTestToken(t *testing.T, userID primitive.ObjectID, secret string) string {
	t.Helper()
	claims := &middleware.JwtCustomClaims{
		UserID: userID.Hex(),
		Email:  "lawyer@example.com",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func knownUserResolver(known primitive.ObjectID) UserResolver {
	return func(ctx context.Context, userID primitive.ObjectID) error {
		if userID != known {
			return models.ErrNotFound
		}
		return nil
	}
}

func TestExtractToken(t *testing.T) {
	t.Run("query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token=abc", nil)
		assert.Equal(t, "abc", ExtractToken(req))
	})

	t.Run("authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
		req.Header.Set("Authorization", "Bearer abc")
		assert.Equal(t, "abc", ExtractToken(req))
	})

	t.Run("query parameter wins over header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token=fromquery", nil)
		req.Header.Set("Authorization", "Bearer fromheader")
		assert.Equal(t, "fromquery", ExtractToken(req))
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
		assert.Equal(t, "", ExtractToken(req))
	})
}

func TestHandlerAuthenticate(t *testing.T) {
	userID := primitive.NewObjectID()
	handler := NewHandler(NewHub(), testSecret, knownUserResolver(userID), AllowAll)

	t.Run("valid token resolves claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+signTestToken(t, userID, testSecret), nil)

		claims, resolved, err := handler.Authenticate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, userID, resolved)
		assert.Equal(t, userID.Hex(), claims.UserID)
		assert.Equal(t, "lawyer@example.com", claims.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)

		_, _, err := handler.Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrAuthenticationRequired)
	})

	t.Run("token signed with wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+signTestToken(t, userID, "other-secret"), nil)

		_, _, err := handler.Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token=not-a-jwt", nil)

		_, _, err := handler.Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &middleware.JwtCustomClaims{
			UserID: userID.Hex(),
			StandardClaims: jwt.StandardClaims{
				ExpiresAt: time.Now().Add(-time.Hour).Unix(),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+signed, nil)
		_, _, err = handler.Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+signTestToken(t, primitive.NewObjectID(), testSecret), nil)

		_, _, err := handler.Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func startGatewayServer(t *testing.T, handler *Handler) string {
	t.Helper()
	e := echo.New()
	e.GET("/api/v1/ws", handler.HandleWebSocket)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

func waitForRoomSize(t *testing.T, hub *Hub, room string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.RoomSize(room) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never reached size %d", room, want)
}

func TestHandleWebSocket(t *testing.T) {
	userID := primitive.NewObjectID()
	token := signTestToken(t, userID, testSecret)

	t.Run("session lifecycle", func(t *testing.T) {
		hub := NewHub()
		handler := NewHandler(hub, testSecret, knownUserResolver(userID), AllowAll)
		url := startGatewayServer(t, handler)

		conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
		require.NoError(t, err)
		defer conn.Close()

		welcome := readEvent(t, conn)
		assert.Equal(t, "connected", welcome.Event)
		payload, ok := welcome.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, userID.Hex(), payload["userId"])

		waitForRoomSize(t, hub, UserRoom(userID), 1)
		assert.True(t, hub.IsUserOnline(userID))

		// Subscribe to a folder topic, then a hub emit on that room
		// must reach the socket.
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"event": "subscribe:folder",
			"data":  map[string]string{"folderId": "5"},
		}))
		waitForRoomSize(t, hub, FolderRoom("5"), 1)

		hub.Emit(FolderRoom("5"), "folder:updated", map[string]string{"id": "5", "title": "Silva v. State"})
		update := readEvent(t, conn)
		assert.Equal(t, "folder:updated", update.Event)

		require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": "subscribe:precatorios"}))
		waitForRoomSize(t, hub, PrecatoriosRoom, 1)

		conn.Close()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) && hub.IsUserOnline(userID) {
			time.Sleep(5 * time.Millisecond)
		}
		assert.False(t, hub.IsUserOnline(userID), "disconnect must clear the registry")
		assert.Equal(t, 0, hub.RoomSize(FolderRoom("5")))
	})

	t.Run("rejects missing token after upgrade", func(t *testing.T) {
		handler := NewHandler(NewHub(), testSecret, knownUserResolver(userID), AllowAll)
		url := startGatewayServer(t, handler)

		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err, "upgrade succeeds; denial arrives as a frame")
		defer conn.Close()

		evt := readEvent(t, conn)
		assert.Equal(t, "error", evt.Event)
		payload, ok := evt.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Authentication required", payload["message"])

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err = conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation),
			"expected policy violation close, got %v", err)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		handler := NewHandler(NewHub(), testSecret, knownUserResolver(userID), AllowAll)
		url := startGatewayServer(t, handler)

		conn, _, err := websocket.DefaultDialer.Dial(url+"?token=bogus", nil)
		require.NoError(t, err)
		defer conn.Close()

		evt := readEvent(t, conn)
		assert.Equal(t, "error", evt.Event)
		payload, ok := evt.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Authentication failed", payload["message"])
	})

	t.Run("denied subscription emits error and skips the room", func(t *testing.T) {
		hub := NewHub()
		denyAll := func(userID primitive.ObjectID, topic, topicID string) bool { return false }
		handler := NewHandler(hub, testSecret, knownUserResolver(userID), denyAll)
		url := startGatewayServer(t, handler)

		conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
		require.NoError(t, err)
		defer conn.Close()
		readEvent(t, conn) // connected

		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"event": "subscribe:folder",
			"data":  map[string]string{"folderId": "5"},
		}))

		evt := readEvent(t, conn)
		assert.Equal(t, "error", evt.Event)
		assert.Equal(t, 0, hub.RoomSize(FolderRoom("5")))
	})

	t.Run("subscribe without id emits error", func(t *testing.T) {
		hub := NewHub()
		handler := NewHandler(hub, testSecret, knownUserResolver(userID), AllowAll)
		url := startGatewayServer(t, handler)

		conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
		require.NoError(t, err)
		defer conn.Close()
		readEvent(t, conn) // connected

		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"event": "subscribe:process",
			"data":  map[string]string{},
		}))

		evt := readEvent(t, conn)
		assert.Equal(t, "error", evt.Event)
	})

	t.Run("unknown event emits error without disconnecting", func(t *testing.T) {
		hub := NewHub()
		handler := NewHandler(hub, testSecret, knownUserResolver(userID), AllowAll)
		url := startGatewayServer(t, handler)

		conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
		require.NoError(t, err)
		defer conn.Close()
		readEvent(t, conn) // connected

		require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": "dance"}))
		evt := readEvent(t, conn)
		assert.Equal(t, "error", evt.Event)

		// Connection is still usable afterwards
		require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": "subscribe:precatorios"}))
		waitForRoomSize(t, hub, PrecatoriosRoom, 1)
	})
}

func TestEmitReachesOnlySubscribers(t *testing.T) {
	hub := NewHub()
	subscriber := primitive.NewObjectID()
	bystander := primitive.NewObjectID()
	resolver := func(ctx context.Context, userID primitive.ObjectID) error { return nil }
	handler := NewHandler(hub, testSecret, resolver, AllowAll)
	url := startGatewayServer(t, handler)

	subConn, _, err := websocket.DefaultDialer.Dial(url+"?token="+signTestToken(t, subscriber, testSecret), nil)
	require.NoError(t, err)
	defer subConn.Close()
	readEvent(t, subConn) // connected

	byConn, _, err := websocket.DefaultDialer.Dial(url+"?token="+signTestToken(t, bystander, testSecret), nil)
	require.NoError(t, err)
	defer byConn.Close()
	readEvent(t, byConn) // connected

	require.NoError(t, subConn.WriteJSON(map[string]interface{}{
		"event": "subscribe:folder",
		"data":  map[string]string{"folderId": "9"},
	}))
	waitForRoomSize(t, hub, FolderRoom("9"), 1)

	hub.Emit(FolderRoom("9"), "folder:updated", map[string]string{"id": "9"})

	evt := readEvent(t, subConn)
	assert.Equal(t, "folder:updated", evt.Event)

	byConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var stray Event
	err = byConn.ReadJSON(&stray)
	assert.Error(t, err, "bystander must not receive the folder event")
}
