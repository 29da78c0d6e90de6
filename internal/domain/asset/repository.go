package asset

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows asset list queries
type Filter struct {
	Status     string
	LocationID *uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	Page       int
	PageSize   int
}

// Repository defines persistence operations for assets
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	FindByTag(ctx context.Context, tag string) (*Asset, error)
	FindAll(ctx context.Context, filter Filter) ([]Asset, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// Save persists the asset and its pending history events in one
	// transaction, clearing the pending events on success.
	Save(ctx context.Context, a *Asset) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindEvents(ctx context.Context, assetID uuid.UUID) ([]Event, error)
	ExistsByTag(ctx context.Context, tag string) (bool, error)
	// MaxTagSequence returns the highest trailing sequence number among
	// tags matching prefix + "%" + suffix (used for tag generation).
	MaxTagSequence(ctx context.Context, prefix, yearToken string) (int, error)
}
