package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FolderFavorite is the join relation between a user and a folder.
// At most one row exists per (userId, folderId) pair, enforced by a
// unique compound index.
type FolderFavorite struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	FolderID  primitive.ObjectID `json:"folderId" bson:"folderId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// ToggleFavoriteResult reports the outcome of a single toggle
type ToggleFavoriteResult struct {
	Action     string `json:"action"` // "added" or "removed"
	IsFavorite bool   `json:"isFavorite"`
}

// BulkToggleFavoritesRequest represents the request body for bulk toggling
type BulkToggleFavoritesRequest struct {
	FolderIDs []string `json:"folderIds" validate:"required,min=1"`
}

// BulkToggleFavoritesResult reports the ids that were added and removed
type BulkToggleFavoritesResult struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}
