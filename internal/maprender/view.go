package maprender

import (
	"briefing/pkg/domain"
	"briefing/pkg/serrors"
)

// Zoom limits accepted by View.Validate, matching common slippy-map tile sets.
const (
	MinZoom = 1
	MaxZoom = 18
)

// View frames the map: where it is centred, how far it is zoomed and the
// size of the drawing in pixels.
type View struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Width     int
	Height    int
	Title     string
}

// DefaultView is centred on the Czech Republic at zoom 8.
func DefaultView() View {
	return View{
		CenterLat: 49.7433,
		CenterLon: 15.1000,
		Zoom:      8,
		Width:     1024,
		Height:    768,
		Title:     "Mission Briefing",
	}
}

// Validate reports a serrors.ErrRender error when the view cannot be drawn.
func (v View) Validate() error {
	if err := domain.ValidateCoordinates(v.CenterLat, v.CenterLon); err != nil {
		return serrors.Wrap(serrors.ErrRender, err, "invalid map centre")
	}
	if v.Zoom < MinZoom || v.Zoom > MaxZoom {
		return serrors.With(serrors.ErrRender, "zoom %d outside [%d, %d]", v.Zoom, MinZoom, MaxZoom)
	}
	if v.Width <= 0 || v.Height <= 0 {
		return serrors.With(serrors.ErrRender, "map size %dx%d must be positive", v.Width, v.Height)
	}

	return nil
}
