// Package storage defines the durable record boundary of the briefing tool.
// The POI store depends only on the Storage interface so the on-disk format
// and location can change without touching collection logic.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"

	"briefing/pkg/domain"
)

// Storage reads and writes a whole point-of-interest collection.
type Storage interface {
	// Load returns the stored collection in its persisted order. It returns an
	// error matching ErrNotExist when no record has been written yet, and one
	// carrying serrors.ErrCorruptStore when the record cannot be decoded or
	// holds invalid points.
	Load(ctx context.Context) ([]domain.PointOfInterest, error)
	// Save replaces the stored collection. Implementations must be atomic: on
	// failure the previously stored record stays intact and readable.
	Save(ctx context.Context, pois []domain.PointOfInterest) error
	// Location describes where the record lives, for logs and messages.
	Location() string
}
