// Package maprender turns a point-of-interest collection into a map artifact.
// Renderers are pure: the same collection and view always produce the same
// bytes, and nothing is remembered between calls.
package maprender

import (
	"context"

	"briefing/pkg/domain"
	"briefing/pkg/logger"
	"briefing/pkg/serrors"

	"go.uber.org/zap"
)

// Renderer produces a self-contained artifact from a collection.
//
//go:generate mockgen -package mockmaprender -source=renderer.go -destination=mock/mockmaprender.go *
type Renderer interface {
	Render(ctx context.Context, pois []domain.PointOfInterest, view View) (*Artifact, error)
}

// Artifact is a rendered document. It has no identity of its own and is
// regenerated in full whenever the collection changes.
type Artifact struct {
	// Content is the document itself.
	Content []byte
	// ContentType is the MIME type of Content.
	ContentType string
	// Markers are the markers embedded in Content, in collection order.
	Markers []Marker
	// Skipped counts points left out because their coordinates were out of range.
	Skipped int
}

// Marker is a point of interest resolved to its visual representation.
type Marker struct {
	// Index is the position of the point in the collection.
	Index       int
	Name        string
	Lat         float64
	Lon         float64
	Affiliation domain.Affiliation
	Icon        Icon
}

// Icon identifies the symbol drawn for an affiliation.
type Icon struct {
	ID    string
	Color string
	// Shape follows the frame shapes of military map symbology:
	// rectangle for friend, diamond for hostile, square for neutral.
	Shape string
}

var (
	friendIcon  = Icon{ID: "friend", Color: "#1f6feb", Shape: "rectangle"}
	foeIcon     = Icon{ID: "foe", Color: "#d1242f", Shape: "diamond"}
	neutralIcon = Icon{ID: "neutral", Color: "#1a7f37", Shape: "square"}
)

// IconFor maps an affiliation to its icon. Unrecognized tags get the neutral icon.
func IconFor(a domain.Affiliation) Icon {
	switch a {
	case domain.AffiliationFriend:
		return friendIcon
	case domain.AffiliationFoe:
		return foeIcon
	default:
		return neutralIcon
	}
}

// BuildMarkers resolves every point to a marker. Points with coordinates
// outside the valid ranges are skipped and counted; the rest still render.
func BuildMarkers(ctx context.Context, pois []domain.PointOfInterest) ([]Marker, int) {
	markers := make([]Marker, 0, len(pois))
	skipped := 0
	for i, p := range pois {
		if err := domain.ValidateCoordinates(p.Lat, p.Lon); err != nil {
			skipped++
			logger.Warn(ctx, "skipping point of interest with invalid coordinates",
				zap.Int("poi.index", i),
				zap.String("poi.name", p.Name),
				zap.Error(err))

			continue
		}
		markers = append(markers, Marker{
			Index:       i,
			Name:        p.Name,
			Lat:         p.Lat,
			Lon:         p.Lon,
			Affiliation: p.Affiliation,
			Icon:        IconFor(p.Affiliation),
		})
	}

	return markers, skipped
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return serrors.Wrap(serrors.ErrRender, err, "render cancelled")
	}

	return nil
}
