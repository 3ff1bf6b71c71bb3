package storage

import (
	"briefing/pkg/domain"
	"briefing/pkg/serrors"
)

// Record is the persisted shape of a single point of interest. Coordinates are
// pointers so a missing field can be told apart from a zero value on load.
type Record struct {
	Name        string   `json:"name" yaml:"name"`
	Lat         *float64 `json:"lat" yaml:"lat"`
	Lon         *float64 `json:"lon" yaml:"lon"`
	Affiliation string   `json:"affiliation" yaml:"affiliation"`
}

// ToRecords converts a collection into its persisted form, preserving order.
func ToRecords(pois []domain.PointOfInterest) []Record {
	out := make([]Record, len(pois))
	for i, p := range pois {
		lat, lon := p.Lat, p.Lon
		out[i] = Record{
			Name:        p.Name,
			Lat:         &lat,
			Lon:         &lon,
			Affiliation: string(p.Affiliation),
		}
	}

	return out
}

// FromRecords validates decoded records and converts them back into a
// collection without normalising them. Any missing or invalid field makes the
// whole record corrupt.
func FromRecords(records []Record) ([]domain.PointOfInterest, error) {
	out := make([]domain.PointOfInterest, 0, len(records))
	for i, r := range records {
		if r.Lat == nil || r.Lon == nil {
			return nil, serrors.With(serrors.ErrCorruptStore, "record %d: missing coordinates", i)
		}
		p := domain.PointOfInterest{
			Name:        r.Name,
			Lat:         *r.Lat,
			Lon:         *r.Lon,
			Affiliation: domain.Affiliation(r.Affiliation),
		}
		if err := p.Validate(); err != nil {
			return nil, serrors.Wrap(serrors.ErrCorruptStore, err, "record %d", i)
		}
		out = append(out, p)
	}

	return out, nil
}
