// Package briefing is the caller-facing API of the tool. It sequences store
// mutations and map refreshes for the CLI and the display server: the store
// never renders and the renderer never touches the store.
package briefing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"briefing/internal/config"
	"briefing/internal/maprender"
	"briefing/internal/poistore"
	"briefing/pkg/domain"
	"briefing/pkg/logger"
	"briefing/pkg/metrics"
	"briefing/pkg/serrors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "briefing"

// Options configure the service.
type Options struct {
	// View frames every map rendered by Refresh.
	View maprender.View
	// MeterProvider receives the service metrics. Nil uses the global provider.
	MeterProvider metric.MeterProvider
}

// NewOptions constructs an Options value from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		View: maprender.View{
			CenterLat: cfg.Map.CenterLat,
			CenterLon: cfg.Map.CenterLon,
			Zoom:      cfg.Map.Zoom,
			Width:     cfg.Map.Width,
			Height:    cfg.Map.Height,
			Title:     cfg.Map.Title,
		},
	}
}

type instruments struct {
	mutations      metric.Int64Counter
	renders        metric.Int64Counter
	renderDuration metric.Float64Histogram
	pois           metric.Int64Gauge
}

// Service serializes access to the store so it can be shared by HTTP handlers.
type Service struct {
	mu       sync.Mutex
	store    poistore.Store
	renderer maprender.Renderer
	view     maprender.View
	metrics  instruments
}

// New creates a Service over a loaded store and a renderer.
func New(store poistore.Store, renderer maprender.Renderer, opts Options) (*Service, error) {
	if err := opts.View.Validate(); err != nil {
		return nil, fmt.Errorf("invalid map view: %w", err)
	}

	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	inst, err := newInstruments(mp.Meter(meterName))
	if err != nil {
		return nil, err
	}

	return &Service{
		store:    store,
		renderer: renderer,
		view:     opts.View,
		metrics:  inst,
	}, nil
}

func newInstruments(meter metric.Meter) (instruments, error) {
	var (
		inst instruments
		err  error
	)

	inst.mutations, err = meter.Int64Counter("briefing.mutations",
		metric.WithDescription("Point of interest mutations by operation and result"),
		metric.WithUnit("{mutation}"))
	if err != nil {
		return inst, fmt.Errorf("could not create mutations counter: %w", err)
	}

	inst.renders, err = meter.Int64Counter("briefing.renders",
		metric.WithDescription("Map renders by result"),
		metric.WithUnit("{render}"))
	if err != nil {
		return inst, fmt.Errorf("could not create renders counter: %w", err)
	}

	inst.renderDuration, err = meter.Float64Histogram("briefing.render.duration",
		metric.WithDescription("Time spent rendering the map artifact"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.RenderBuckets...))
	if err != nil {
		return inst, fmt.Errorf("could not create render duration histogram: %w", err)
	}

	inst.pois, err = meter.Int64Gauge("briefing.pois",
		metric.WithDescription("Points of interest in the collection"),
		metric.WithUnit("{poi}"))
	if err != nil {
		return inst, fmt.Errorf("could not create pois gauge: %w", err)
	}

	return inst, nil
}

// View returns the view used by Refresh.
func (s *Service) View() maprender.View { return s.view }

// Add appends poi to the collection.
func (s *Service) Add(ctx context.Context, poi domain.PointOfInterest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recordMutation(ctx, "add", s.store.Add(ctx, poi))
}

// Update replaces the point at index.
func (s *Service) Update(ctx context.Context, index int, poi domain.PointOfInterest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recordMutation(ctx, "update", s.store.Update(ctx, index, poi))
}

// Delete removes the point at index.
func (s *Service) Delete(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recordMutation(ctx, "delete", s.store.Delete(ctx, index))
}

// List returns a snapshot of the collection.
func (s *Service) List(ctx context.Context) []domain.PointOfInterest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.List(ctx)
}

// Reload re-reads the durable record, picking up changes written by another
// invocation of the tool. It never writes: a record removed from disk shows
// as an empty collection and stays absent.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recordMutation(ctx, "reload", s.store.Reload(ctx))
}

// Refresh renders the current collection with the service renderer.
func (s *Service) Refresh(ctx context.Context) (*maprender.Artifact, error) {
	return s.RenderWith(ctx, s.renderer)
}

// RenderWith renders the current collection with r instead of the service
// renderer, e.g. to export GeoJSON next to the HTML map.
func (s *Service) RenderWith(ctx context.Context, r maprender.Renderer) (*maprender.Artifact, error) {
	pois := s.List(ctx)

	start := time.Now()
	artifact, err := r.Render(ctx, pois, s.view)
	elapsed := time.Since(start).Seconds()

	if err != nil && serrors.KindOf(err) == nil {
		err = serrors.Wrap(serrors.ErrRender, err, "could not render map")
	}

	attrs := metric.WithAttributes(attribute.String("result", resultOf(err)))
	s.metrics.renders.Add(ctx, 1, attrs)
	s.metrics.renderDuration.Record(ctx, elapsed, attrs)

	if err != nil {
		logger.Error(ctx, "map render failed", zap.Int("pois", len(pois)), zap.Error(err))

		return nil, err
	}

	logger.Info(ctx, "map refreshed",
		zap.Int("markers", len(artifact.Markers)),
		zap.Int("skipped", artifact.Skipped),
		zap.String("content_type", artifact.ContentType),
		zap.Float64("seconds", elapsed))

	return artifact, nil
}

func (s *Service) recordMutation(ctx context.Context, op string, err error) error {
	s.metrics.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("result", resultOf(err)),
	))
	s.metrics.pois.Record(ctx, int64(s.store.Len()))

	return err
}

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	if k := serrors.KindOf(err); k != nil {
		return strings.ToLower(k.Error())
	}

	return "error"
}
