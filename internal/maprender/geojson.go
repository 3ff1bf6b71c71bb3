package maprender

import (
	"context"
	"encoding/json"

	"briefing/pkg/domain"
	"briefing/pkg/serrors"
)

// GeoJSONContentType is the MIME type of artifacts produced by GeoJSON.
const GeoJSONContentType = "application/geo+json"

// FeatureCollection is a GeoJSON document with one Point feature per marker.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// Geometry is a GeoJSON point. Coordinates are [lon, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureProperties annotate a point with its marker attributes.
type FeatureProperties struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// NewFeatureCollection converts markers into a GeoJSON feature collection.
func NewFeatureCollection(markers []Marker) FeatureCollection {
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(markers)),
	}
	for _, m := range markers {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{m.Lon, m.Lat},
			},
			Properties: FeatureProperties{
				Index:       m.Index,
				Name:        m.Name,
				Affiliation: string(m.Affiliation),
				Icon:        m.Icon.ID,
				Color:       m.Icon.Color,
			},
		})
	}

	return fc
}

// GeoJSON renders the collection as a GeoJSON FeatureCollection. The view is
// not part of the output.
type GeoJSON struct{}

var _ Renderer = GeoJSON{}

// NewGeoJSON returns a GeoJSON renderer.
func NewGeoJSON() GeoJSON { return GeoJSON{} }

// Render implements Renderer.
func (GeoJSON) Render(ctx context.Context, pois []domain.PointOfInterest, _ View) (*Artifact, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	markers, skipped := BuildMarkers(ctx, pois)
	b, err := json.MarshalIndent(NewFeatureCollection(markers), "", "  ")
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrRender, err, "could not encode geojson")
	}

	return &Artifact{
		Content:     append(b, '\n'),
		ContentType: GeoJSONContentType,
		Markers:     markers,
		Skipped:     skipped,
	}, nil
}
