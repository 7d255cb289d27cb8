package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder statuses
const (
	FolderStatusActive   = "active"
	FolderStatusArchived = "archived"
	FolderStatusClosed   = "closed"
)

// Folder represents a case folder
type Folder struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	ClientName    string             `json:"clientName" bson:"clientName"`
	ProcessNumber string             `json:"processNumber,omitempty" bson:"processNumber,omitempty"`
	Court         string             `json:"court,omitempty" bson:"court,omitempty"`
	Status        string             `json:"status" bson:"status"`
	Deleted       bool               `json:"-" bson:"deleted"` // soft-delete flag, always filtered on reads
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FolderRequest represents the request body for creating or updating a folder
type FolderRequest struct {
	Title         string `json:"title" validate:"required"`
	ClientName    string `json:"clientName" validate:"required"`
	ProcessNumber string `json:"processNumber,omitempty"`
	Court         string `json:"court,omitempty"`
	Status        string `json:"status,omitempty"`
}
