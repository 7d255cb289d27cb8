package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestClient(userID primitive.ObjectID) *Client {
	return &Client{ID: uuid.NewString(), UserID: userID}
}

func TestHubRegistry(t *testing.T) {
	t.Run("register joins the per-user room", func(t *testing.T) {
		hub := NewHub()
		userID := primitive.NewObjectID()
		client := newTestClient(userID)

		hub.Register(client)

		assert.True(t, hub.IsUserOnline(userID))
		assert.Equal(t, 1, hub.ConnectionCount(userID))
		assert.True(t, hub.InRoom(client, UserRoom(userID)))
	})

	t.Run("multiple connections for one user", func(t *testing.T) {
		hub := NewHub()
		userID := primitive.NewObjectID()
		first := newTestClient(userID)
		second := newTestClient(userID)

		hub.Register(first)
		hub.Register(second)
		assert.Equal(t, 2, hub.ConnectionCount(userID))
		assert.Equal(t, 2, hub.RoomSize(UserRoom(userID)))

		hub.Unregister(first)
		assert.True(t, hub.IsUserOnline(userID), "user stays online while a connection remains")
		assert.Equal(t, 1, hub.ConnectionCount(userID))

		hub.Unregister(second)
		assert.False(t, hub.IsUserOnline(userID), "last connection removes the user entry")
		assert.Equal(t, 0, hub.ConnectionCount(userID))
	})

	t.Run("unregister leaves every room", func(t *testing.T) {
		hub := NewHub()
		client := newTestClient(primitive.NewObjectID())

		hub.Register(client)
		hub.Join(client, FolderRoom("5"))
		hub.Join(client, PrecatoriosRoom)
		assert.Equal(t, 1, hub.RoomSize(FolderRoom("5")))
		assert.Equal(t, 1, hub.RoomSize(PrecatoriosRoom))

		hub.Unregister(client)
		assert.Equal(t, 0, hub.RoomSize(FolderRoom("5")))
		assert.Equal(t, 0, hub.RoomSize(PrecatoriosRoom))
		assert.False(t, hub.InRoom(client, FolderRoom("5")))
	})

	t.Run("leave removes only the requested room", func(t *testing.T) {
		hub := NewHub()
		client := newTestClient(primitive.NewObjectID())

		hub.Register(client)
		hub.Join(client, ProcessRoom("12"))
		hub.Join(client, PrecatoriosRoom)

		hub.Leave(client, ProcessRoom("12"))
		assert.False(t, hub.InRoom(client, ProcessRoom("12")))
		assert.True(t, hub.InRoom(client, PrecatoriosRoom))
	})

	t.Run("offline user is reported offline", func(t *testing.T) {
		hub := NewHub()
		assert.False(t, hub.IsUserOnline(primitive.NewObjectID()))
	})
}

func TestRoomNames(t *testing.T) {
	userID := primitive.NewObjectID()
	assert.Equal(t, "user:"+userID.Hex(), UserRoom(userID))
	assert.Equal(t, "folder:5", FolderRoom("5"))
	assert.Equal(t, "process:12", ProcessRoom("12"))
	assert.Equal(t, "precatorios", PrecatoriosRoom)
}
