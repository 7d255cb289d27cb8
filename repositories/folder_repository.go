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

// FolderRepository always filters on the deleted flag and sets timestamps
// explicitly on write; there are no implicit model hooks.
type FolderRepository struct {
	collection *mongo.Collection
}

func NewFolderRepository(db *mongo.Client) *FolderRepository {
	return &FolderRepository{
		collection: config.GetCollection(db, "folders"),
	}
}

// Create inserts a folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	now := time.Now()
	folder.ID = primitive.NewObjectID()
	if folder.Status == "" {
		folder.Status = models.FolderStatusActive
	}
	folder.Deleted = false
	folder.CreatedAt = now
	folder.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, folder)
	return err
}

// GetByID returns one live folder
func (r *FolderRepository) GetByID(ctx context.Context, folderID primitive.ObjectID) (*models.Folder, error) {
	var folder models.Folder
	err := r.collection.FindOne(ctx, bson.M{"_id": folderID, "deleted": false}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// List returns live folders newest-first with pagination and optional
// filters (status, client name, created range).
func (r *FolderRepository) List(ctx context.Context, filters []Filter, page, limit int) ([]models.Folder, int64, error) {
	query := BuildQuery(bson.M{"deleted": false}, filters)

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

	folders := []models.Folder{}
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, 0, err
	}

	return folders, total, nil
}

// Update replaces the mutable fields of a live folder
func (r *FolderRepository) Update(ctx context.Context, folderID primitive.ObjectID, req *models.FolderRequest) (*models.Folder, error) {
	update := bson.M{
		"title":      req.Title,
		"clientName": req.ClientName,
		"updatedAt":  time.Now(),
	}
	if req.ProcessNumber != "" {
		update["processNumber"] = req.ProcessNumber
	}
	if req.Court != "" {
		update["court"] = req.Court
	}
	if req.Status != "" {
		update["status"] = req.Status
	}

	result := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": folderID, "deleted": false},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var folder models.Folder
	err := result.Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// SoftDelete marks the folder deleted; reads never return it afterwards
func (r *FolderRepository) SoftDelete(ctx context.Context, folderID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": folderID, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
