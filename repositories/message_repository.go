package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jusdesk/jusdesk_backend/config"
	"github.com/jusdesk/jusdesk_backend/models"
)

type MessageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Client) *MessageRepository {
	return &MessageRepository{
		collection: config.GetCollection(db, "messages"),
	}
}

// Create inserts a message, setting id and timestamps
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	now := time.Now()
	message.ID = primitive.NewObjectID()
	if message.Priority == "" {
		message.Priority = models.MessagePriorityNormal
	}
	message.ReadAt = nil
	message.CreatedAt = now
	message.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// List returns the recipient's messages newest-first with pagination and
// optional filters (priority, created range).
func (r *MessageRepository) List(ctx context.Context, userID primitive.ObjectID, filters []Filter, page, limit int) ([]models.Message, int64, error) {
	query := BuildQuery(bson.M{"userId": userID}, filters)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// Recent returns the recipient's latest messages, bounded by MaxRecentLimit
func (r *MessageRepository) Recent(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Message, error) {
	if limit < 1 || limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// UnreadCount counts the recipient's messages with no read timestamp
func (r *MessageRepository) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "readAt": nil})
}

// MarkAsRead sets the read timestamp on one message. Idempotent on
// already-read rows; other users' rows are reported as not found.
func (r *MessageRepository) MarkAsRead(ctx context.Context, userID, messageID primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": messageID, "userId": userID, "readAt": nil},
		bson.M{"$set": bson.M{"readAt": now, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	err = r.collection.FindOne(ctx, bson.M{"_id": messageID, "userId": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return models.ErrNotFound
	}
	return err
}

// MarkAllAsRead sets the read timestamp on every unread message for the
// recipient in a single statement.
func (r *MessageRepository) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	now := time.Now()
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "readAt": nil},
		bson.M{"$set": bson.M{"readAt": now, "updatedAt": now}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// Delete removes one message owned by the recipient
func (r *MessageRepository) Delete(ctx context.Context, userID, messageID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": messageID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
