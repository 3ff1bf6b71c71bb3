// Package poistore keeps the point-of-interest collection in memory and
// writes it through to a storage.Storage backend after every change.
package poistore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"briefing/pkg/domain"
	"briefing/pkg/logger"
	"briefing/pkg/serrors"
	"briefing/pkg/storage"

	"go.uber.org/zap"
)

// store is the concrete implementation of the Store interface.
type store struct {
	// backend persists the full collection.
	backend storage.Storage
	// pois is never shared with callers; mutations build a new slice so the
	// previous one can be restored if persisting fails.
	pois []domain.PointOfInterest
}

// New creates an empty Store over backend without touching it. Call Load to
// read the durable record.
func New(backend storage.Storage) Store {
	return &store{
		backend: backend,
		pois:    []domain.PointOfInterest{},
	}
}

// Open creates a Store and loads the durable record. A missing record is
// bootstrapped as an empty collection; a corrupt one is returned as an error
// carrying serrors.ErrCorruptStore so the caller can decide to Reset.
func Open(ctx context.Context, backend storage.Storage) (Store, error) {
	s := New(backend)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Add validates poi and appends it to the end of the collection.
func (s *store) Add(ctx context.Context, poi domain.PointOfInterest) error {
	if err := poi.Validate(); err != nil {
		return err
	}

	next := make([]domain.PointOfInterest, len(s.pois), len(s.pois)+1)
	copy(next, s.pois)
	next = append(next, poi)

	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("could not add %q: %w", poi.Name, err)
	}

	logger.Info(ctx, "point of interest added", poiFields(len(next)-1, poi, len(next))...)

	return nil
}

// Update replaces the element at index with poi.
func (s *store) Update(ctx context.Context, index int, poi domain.PointOfInterest) error {
	if err := poi.Validate(); err != nil {
		return err
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}

	next := slices.Clone(s.pois)
	next[index] = poi

	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("could not update index %d: %w", index, err)
	}

	logger.Info(ctx, "point of interest updated", poiFields(index, poi, len(next))...)

	return nil
}

// Delete removes the element at index, shifting later elements down by one.
func (s *store) Delete(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	removed := s.pois[index]
	next := slices.Delete(slices.Clone(s.pois), index, index+1)

	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("could not delete index %d: %w", index, err)
	}

	logger.Info(ctx, "point of interest deleted", poiFields(index, removed, len(next))...)

	return nil
}

// List returns a copy of the collection.
func (s *store) List(_ context.Context) []domain.PointOfInterest {
	out := make([]domain.PointOfInterest, len(s.pois))
	copy(out, s.pois)

	return out
}

// Len returns the number of points in the collection.
func (s *store) Len() int { return len(s.pois) }

// Load replaces the in-memory collection with the durable record. A missing
// record is bootstrapped by writing an empty one. On error the in-memory
// collection is left unchanged.
func (s *store) Load(ctx context.Context) error {
	return s.load(ctx, true)
}

// Reload is Load for readers that must not write: a missing record yields an
// empty in-memory collection and the file is left absent.
func (s *store) Reload(ctx context.Context) error {
	return s.load(ctx, false)
}

func (s *store) load(ctx context.Context, bootstrap bool) error {
	pois, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotExist) && bootstrap:
		logger.Info(ctx, "durable record not found, creating an empty one",
			zap.String("path", s.backend.Location()))

		if err := s.commit(ctx, []domain.PointOfInterest{}); err != nil {
			return fmt.Errorf("could not bootstrap durable record: %w", err)
		}

		return nil
	case errors.Is(err, storage.ErrNotExist):
		logger.Warn(ctx, "durable record not found, showing an empty collection",
			zap.String("path", s.backend.Location()))
		s.pois = []domain.PointOfInterest{}

		return nil
	case err != nil:
		if serrors.KindOf(err) == nil {
			err = serrors.Wrap(serrors.ErrUnavailable, err, "could not load %s", s.backend.Location())
		}

		return fmt.Errorf("could not load points of interest: %w", err)
	}

	if pois == nil {
		pois = []domain.PointOfInterest{}
	}
	s.pois = pois

	logger.Info(ctx, "points of interest loaded",
		zap.String("path", s.backend.Location()),
		zap.Int("pois", len(pois)))

	return nil
}

// Persist writes the current collection to the backend.
func (s *store) Persist(ctx context.Context) error {
	if err := s.backend.Save(ctx, s.pois); err != nil {
		if serrors.KindOf(err) == nil {
			err = serrors.Wrap(serrors.ErrPersist, err, "could not save %s", s.backend.Location())
		}

		return err
	}

	return nil
}

// Reset discards the collection and persists an empty one. It is the explicit
// recovery path after Load reported a corrupt record.
func (s *store) Reset(ctx context.Context) error {
	if err := s.commit(ctx, []domain.PointOfInterest{}); err != nil {
		return fmt.Errorf("could not reset collection: %w", err)
	}

	logger.Warn(ctx, "collection reset to empty", zap.String("path", s.backend.Location()))

	return nil
}

// commit installs next as the collection and persists it, restoring the
// previous collection if the write fails.
func (s *store) commit(ctx context.Context, next []domain.PointOfInterest) error {
	prev := s.pois
	s.pois = next

	if err := s.Persist(ctx); err != nil {
		s.pois = prev
		logger.Error(ctx, "persist failed, collection rolled back",
			zap.String("path", s.backend.Location()),
			zap.Int("pois", len(prev)),
			zap.Error(err))

		return err
	}

	return nil
}

func (s *store) checkIndex(index int) error {
	if index < 0 || index >= len(s.pois) {
		return serrors.With(serrors.ErrIndex, "index %d out of range [0, %d)", index, len(s.pois))
	}

	return nil
}

func poiFields(index int, poi domain.PointOfInterest, size int) []zap.Field {
	return []zap.Field{
		zap.Int("poi.index", index),
		zap.String("poi.name", poi.Name),
		zap.String("poi.affiliation", string(poi.Affiliation)),
		zap.Int("pois", size),
	}
}
