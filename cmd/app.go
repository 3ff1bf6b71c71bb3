package main

import (
	"context"
	"errors"

	"briefing/internal/briefing"
	"briefing/internal/maprender"
	"briefing/internal/poistore"
	"briefing/pkg/logger"
	"briefing/pkg/serrors"
	"briefing/pkg/storage/file"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// openStore opens the durable record named in the config. A corrupt record
// aborts unless --reset-corrupt was given.
func (a *app) openStore(ctx context.Context) (poistore.Store, error) {
	backend, err := file.New(file.Options{Path: a.cfg.Store.Path})
	if err != nil {
		return nil, err
	}

	store, err := poistore.Open(ctx, backend)
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, serrors.ErrCorruptStore) || !a.resetCorrupt {
		return nil, err
	}

	logger.Warn(ctx, "durable record is corrupt, resetting", zap.Error(err))
	store = poistore.New(backend)
	if err := store.Reset(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// openService opens the store and wraps it in a briefing service rendering HTML.
func (a *app) openService(ctx context.Context, mp metric.MeterProvider) (*briefing.Service, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	opts := briefing.NewOptions(a.cfg)
	opts.MeterProvider = mp

	return briefing.New(store, maprender.NewHTML(), opts)
}
