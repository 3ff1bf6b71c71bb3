// Package display serves the latest map artifact over HTTP. It is the
// display surface of the tool: a browser shows the map and a Refresh
// button regenerates it from the durable record.
package display

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"briefing/internal/briefing"
	"briefing/internal/maprender"
	"briefing/pkg/controller"
	"briefing/pkg/logger"
	"briefing/pkg/serrors"

	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html.tmpl"))

// Handler keeps the last successfully rendered artifact. A failed refresh
// leaves it in place and is reported on the index page.
type Handler struct {
	service *briefing.Service
	geojson maprender.Renderer
	now     func() time.Time

	mu          sync.RWMutex
	last        *maprender.Artifact
	lastErr     error
	refreshedAt time.Time
}

// NewHandler creates a Handler for service. Nothing is shown until the
// first Refresh.
func NewHandler(service *briefing.Service) *Handler {
	return &Handler{
		service: service,
		geojson: maprender.NewGeoJSON(),
		now:     time.Now,
	}
}

// Refresh re-reads the durable record and renders it. On failure the
// previous artifact stays on display.
func (h *Handler) Refresh(ctx context.Context) error {
	artifact, err := h.render(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastErr = err
	if err != nil {
		return err
	}
	h.last = artifact
	h.refreshedAt = h.now()

	return nil
}

func (h *Handler) render(ctx context.Context) (*maprender.Artifact, error) {
	if err := h.service.Reload(ctx); err != nil {
		return nil, err
	}

	return h.service.Refresh(ctx)
}

// Current returns the artifact on display, or nil before the first
// successful refresh.
func (h *Handler) Current() *maprender.Artifact {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.last
}

type indexPage struct {
	Title       string
	Rendered    bool
	Markers     int
	RefreshedAt string
	Error       string
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	page := indexPage{Title: h.service.View().Title}
	if h.last != nil {
		page.Rendered = true
		page.Markers = len(h.last.Markers)
		page.RefreshedAt = h.refreshedAt.Format(time.TimeOnly)
	}
	if h.lastErr != nil {
		page.Error = h.lastErr.Error()
	}
	h.mu.RUnlock()

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		controller.WriteError(r.Context(), w, serrors.Wrap(serrors.ErrRender, err, "could not execute index template"))

		return
	}

	w.Header().Set("Content-Type", maprender.HTMLContentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) artifact(w http.ResponseWriter, _ *http.Request) {
	a := h.Current()
	if a == nil {
		http.Error(w, "map not rendered yet", http.StatusServiceUnavailable)

		return
	}

	writeArtifact(w, a)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Refresh(r.Context()); err != nil {
		controller.WriteError(r.Context(), w, err)

		return
	}

	logger.Debug(r.Context(), "display refreshed")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) exportGeoJSON(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.RenderWith(r.Context(), h.geojson)
	if err != nil {
		controller.WriteError(r.Context(), w, err)

		return
	}

	logger.Debug(r.Context(), "geojson exported", zap.Int("features", len(a.Markers)))
	writeArtifact(w, a)
}

func writeArtifact(w http.ResponseWriter, a *maprender.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Content)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(a.Content)
}
