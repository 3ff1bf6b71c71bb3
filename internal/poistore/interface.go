package poistore

import (
	"context"

	"briefing/pkg/domain"
)

// Store owns the authoritative, ordered point-of-interest collection.
// Points are identified by their position. Every mutation is written through
// to durable storage before it returns; a failed write leaves the collection
// as it was before the call.
//
// A Store is not safe for concurrent use.
//
//go:generate mockgen -package mockpoistore -source=interface.go -destination=mock/mockpoistore.go *
type Store interface {
	Add(ctx context.Context, poi domain.PointOfInterest) error
	Update(ctx context.Context, index int, poi domain.PointOfInterest) error
	Delete(ctx context.Context, index int) error
	List(ctx context.Context) []domain.PointOfInterest
	Len() int
	Load(ctx context.Context) error
	Reload(ctx context.Context) error
	Persist(ctx context.Context) error
	Reset(ctx context.Context) error
}
