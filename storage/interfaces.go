package storage

import (
	"context"

	"rent-dashboard/models"
)

// ListingSource loads the dataset the dashboard serves.
type ListingSource interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// ListingWriter is the interface any storage backend must satisfy.
type ListingWriter interface {
	Write(ctx context.Context, listings []models.Listing) error
	Close() error
}
