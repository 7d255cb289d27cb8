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

// MaxRecentLimit bounds the recent-notifications query
const MaxRecentLimit = 50

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Client) *NotificationRepository {
	return &NotificationRepository{
		collection: config.GetCollection(db, "notifications"),
	}
}

// Create inserts a notification, setting id and timestamps
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	now := time.Now()
	notification.ID = primitive.NewObjectID()
	notification.ReadAt = nil
	notification.CreatedAt = now
	notification.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// List returns the user's notifications newest-first with pagination and
// optional filters (type, created range).
func (r *NotificationRepository) List(ctx context.Context, userID primitive.ObjectID, filters []Filter, page, limit int) ([]models.Notification, int64, error) {
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

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// Recent returns the user's latest notifications, bounded by MaxRecentLimit
func (r *NotificationRepository) Recent(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Notification, error) {
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

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}

// UnreadCount counts the user's notifications with no read timestamp
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "readAt": nil})
}

// MarkAsRead sets the read timestamp on one notification. Idempotent: a
// second call on an already-read row succeeds without touching readAt.
// Rows owned by other users are reported as not found.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": notificationID, "userId": userID, "readAt": nil},
		bson.M{"$set": bson.M{"readAt": now, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: distinguish already-read from absent/not-owned
	err = r.collection.FindOne(ctx, bson.M{"_id": notificationID, "userId": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return models.ErrNotFound
	}
	return err
}

// MarkAllAsRead sets the read timestamp on every unread notification for
// the user in a single statement. Returns the number of rows updated.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
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

// Delete removes one notification owned by the user
func (r *NotificationRepository) Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": notificationID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
