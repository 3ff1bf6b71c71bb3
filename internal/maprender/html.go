package maprender

import (
	"bytes"
	"context"
	"embed"
	"html/template"

	"briefing/pkg/domain"
	"briefing/pkg/logger"
	"briefing/pkg/serrors"

	"go.uber.org/zap"
)

// HTMLContentType is the MIME type of artifacts produced by HTML.
const HTMLContentType = "text/html; charset=utf-8"

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// HTML renders a standalone HTML page with an inline SVG map, a legend and
// the collection embedded as GeoJSON. It loads nothing from the network.
type HTML struct {
	tmpl *template.Template
}

var _ Renderer = (*HTML)(nil)

// NewHTML returns an HTML renderer using the embedded page template.
func NewHTML() *HTML {
	return &HTML{tmpl: templates}
}

type htmlMarker struct {
	Name        string
	Affiliation string
	Lat         string
	Lon         string
	X           string
	Y           string
	Icon        Icon
}

type gridLine struct {
	Pos   string
	Label string
}

type htmlPage struct {
	Title     string
	Width     int
	Height    int
	CenterLat string
	CenterLon string
	Zoom      int
	Markers   []htmlMarker
	Meridians []gridLine
	Parallels []gridLine
	Legend    []Icon
	Skipped   int
	GeoJSON   FeatureCollection
}

// Render implements Renderer.
func (h *HTML) Render(ctx context.Context, pois []domain.PointOfInterest, view View) (*Artifact, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := view.Validate(); err != nil {
		return nil, err
	}

	markers, skipped := BuildMarkers(ctx, pois)
	page := newHTMLPage(view, markers, skipped)

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "map.html.tmpl", page); err != nil {
		return nil, serrors.Wrap(serrors.ErrRender, err, "could not execute map template")
	}

	logger.Debug(ctx, "map rendered",
		zap.Int("markers", len(markers)),
		zap.Int("skipped", skipped),
		zap.Int("bytes", buf.Len()))

	return &Artifact{
		Content:     buf.Bytes(),
		ContentType: HTMLContentType,
		Markers:     markers,
		Skipped:     skipped,
	}, nil
}

func newHTMLPage(view View, markers []Marker, skipped int) htmlPage {
	vp := newViewport(view)

	page := htmlPage{
		Title:     view.Title,
		Width:     view.Width,
		Height:    view.Height,
		CenterLat: formatCoord(view.CenterLat),
		CenterLon: formatCoord(view.CenterLon),
		Zoom:      view.Zoom,
		Markers:   make([]htmlMarker, 0, len(markers)),
		Legend:    []Icon{friendIcon, foeIcon, neutralIcon},
		Skipped:   skipped,
		GeoJSON:   NewFeatureCollection(markers),
	}
	if page.Title == "" {
		page.Title = DefaultView().Title
	}

	for _, m := range markers {
		x, y := vp.point(m.Lat, m.Lon)
		page.Markers = append(page.Markers, htmlMarker{
			Name:        m.Name,
			Affiliation: string(m.Affiliation),
			Lat:         formatCoord(m.Lat),
			Lon:         formatCoord(m.Lon),
			X:           formatNumber(x),
			Y:           formatNumber(y),
			Icon:        m.Icon,
		})
	}

	north, west, south, east := vp.bounds()
	for _, lon := range gridValues(west, east, gridStep(east-west)) {
		x, _ := vp.point(view.CenterLat, lon)
		page.Meridians = append(page.Meridians, gridLine{Pos: formatNumber(x), Label: formatNumber(lon) + "°"})
	}
	for _, lat := range gridValues(max(south, -maxMercatorLat), min(north, maxMercatorLat), gridStep(north-south)) {
		_, y := vp.point(lat, view.CenterLon)
		page.Parallels = append(page.Parallels, gridLine{Pos: formatNumber(y), Label: formatNumber(lat) + "°"})
	}

	return page
}
