package repositories

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jusdesk/jusdesk_backend/config"
	"github.com/jusdesk/jusdesk_backend/models"
)

type FavoriteRepository struct {
	client    *mongo.Client
	favorites *mongo.Collection
	folders   *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Client) *FavoriteRepository {
	return &FavoriteRepository{
		client:    db,
		favorites: config.GetCollection(db, "folderFavorites"),
		folders:   config.GetCollection(db, "folders"),
	}
}

// ListFolders returns the favorited folder documents for the user,
// newest-favorited first. Soft-deleted folders are excluded.
func (r *FavoriteRepository) ListFolders(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.favorites.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	favorites := []models.FolderFavorite{}
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, err
	}

	if len(favorites) == 0 {
		return []models.Folder{}, nil
	}

	folderIDs := make([]primitive.ObjectID, len(favorites))
	for i, fav := range favorites {
		folderIDs[i] = fav.FolderID
	}

	folderCursor, err := r.folders.Find(ctx, bson.M{
		"_id":     bson.M{"$in": folderIDs},
		"deleted": false,
	})
	if err != nil {
		return nil, err
	}
	defer folderCursor.Close(ctx)

	folders := []models.Folder{}
	if err := folderCursor.All(ctx, &folders); err != nil {
		return nil, err
	}

	// Preserve favorited order
	position := make(map[primitive.ObjectID]int, len(folderIDs))
	for i, id := range folderIDs {
		position[id] = i
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return position[folders[i].ID] < position[folders[j].ID]
	})

	return folders, nil
}

// IsFavorite reports whether the (user, folder) pair exists
func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, folderID primitive.ObjectID) (bool, error) {
	count, err := r.favorites.CountDocuments(ctx, bson.M{"userId": userID, "folderId": folderID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Toggle flips the favorite state of one pair and reports what happened
func (r *FavoriteRepository) Toggle(ctx context.Context, userID, folderID primitive.ObjectID) (*models.ToggleFavoriteResult, error) {
	result, err := r.favorites.DeleteOne(ctx, bson.M{"userId": userID, "folderId": folderID})
	if err != nil {
		return nil, err
	}
	if result.DeletedCount > 0 {
		return &models.ToggleFavoriteResult{Action: "removed", IsFavorite: false}, nil
	}

	favorite := models.FolderFavorite{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		FolderID:  folderID,
		CreatedAt: time.Now(),
	}
	if _, err := r.favorites.InsertOne(ctx, favorite); err != nil {
		// A concurrent toggle may have inserted first; the unique index
		// keeps the ledger consistent either way
		if mongo.IsDuplicateKeyError(err) {
			return &models.ToggleFavoriteResult{Action: "added", IsFavorite: true}, nil
		}
		return nil, err
	}

	return &models.ToggleFavoriteResult{Action: "added", IsFavorite: true}, nil
}

// Add creates the favorite if absent; adding an existing favorite is a
// no-op that returns the existing row.
func (r *FavoriteRepository) Add(ctx context.Context, userID, folderID primitive.ObjectID) (*models.FolderFavorite, error) {
	var existing models.FolderFavorite
	err := r.favorites.FindOne(ctx, bson.M{"userId": userID, "folderId": folderID}).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	favorite := models.FolderFavorite{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		FolderID:  folderID,
		CreatedAt: time.Now(),
	}
	if _, err := r.favorites.InsertOne(ctx, favorite); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = r.favorites.FindOne(ctx, bson.M{"userId": userID, "folderId": folderID}).Decode(&existing)
			if err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}

	return &favorite, nil
}

// Remove deletes the favorite; removing an absent favorite is a no-op
func (r *FavoriteRepository) Remove(ctx context.Context, userID, folderID primitive.ObjectID) error {
	_, err := r.favorites.DeleteOne(ctx, bson.M{"userId": userID, "folderId": folderID})
	return err
}

// ComputeToggleSets splits the requested ids into the complement to add
// and the existing intersection to remove. The symmetric difference: per
// element, bulk toggle is self-inverse.
func ComputeToggleSets(requested []primitive.ObjectID, existing map[primitive.ObjectID]bool) (toAdd, toRemove []primitive.ObjectID) {
	seen := make(map[primitive.ObjectID]bool, len(requested))
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true
		if existing[id] {
			toRemove = append(toRemove, id)
		} else {
			toAdd = append(toAdd, id)
		}
	}
	return toAdd, toRemove
}

// BulkToggle toggles every requested pair inside one transaction: the
// existing intersection is removed and the complement added, or neither.
func (r *FavoriteRepository) BulkToggle(ctx context.Context, userID primitive.ObjectID, folderIDs []primitive.ObjectID) (*models.BulkToggleFavoritesResult, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	var toAdd, toRemove []primitive.ObjectID

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		cursor, err := r.favorites.Find(sc, bson.M{
			"userId":   userID,
			"folderId": bson.M{"$in": folderIDs},
		})
		if err != nil {
			return nil, err
		}

		existingFavorites := []models.FolderFavorite{}
		if err := cursor.All(sc, &existingFavorites); err != nil {
			return nil, err
		}

		existing := make(map[primitive.ObjectID]bool, len(existingFavorites))
		for _, fav := range existingFavorites {
			existing[fav.FolderID] = true
		}

		toAdd, toRemove = ComputeToggleSets(folderIDs, existing)

		if len(toRemove) > 0 {
			_, err := r.favorites.DeleteMany(sc, bson.M{
				"userId":   userID,
				"folderId": bson.M{"$in": toRemove},
			})
			if err != nil {
				return nil, err
			}
		}

		if len(toAdd) > 0 {
			now := time.Now()
			docs := make([]interface{}, len(toAdd))
			for i, folderID := range toAdd {
				docs[i] = models.FolderFavorite{
					ID:        primitive.NewObjectID(),
					UserID:    userID,
					FolderID:  folderID,
					CreatedAt: now,
				}
			}
			if _, err := r.favorites.InsertMany(sc, docs); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.BulkToggleFavoritesResult{Added: []string{}, Removed: []string{}}
	for _, id := range toAdd {
		result.Added = append(result.Added, id.Hex())
	}
	for _, id := range toRemove {
		result.Removed = append(result.Removed, id.Hex())
	}
	return result, nil
}
