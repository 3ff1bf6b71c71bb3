package domain

import (
	"math"
	"strings"

	"briefing/pkg/serrors"
)

// Affiliation classifies a point of interest and drives its map marker.
type Affiliation string

const (
	// AffiliationFriend marks an own or allied position.
	AffiliationFriend Affiliation = "Friend"
	// AffiliationFoe marks a hostile position.
	AffiliationFoe Affiliation = "Foe"
	// AffiliationNeutral marks a position of neither side.
	AffiliationNeutral Affiliation = "Neutral"
)

// Affiliations lists the recognized tags in display order.
func Affiliations() []Affiliation {
	return []Affiliation{AffiliationFriend, AffiliationFoe, AffiliationNeutral}
}

// Valid reports whether a is one of the recognized tags.
func (a Affiliation) Valid() bool {
	switch a {
	case AffiliationFriend, AffiliationFoe, AffiliationNeutral:
		return true
	default:
		return false
	}
}

// ParseAffiliation maps a user supplied tag onto an Affiliation, ignoring case
// and surrounding whitespace.
func ParseAffiliation(s string) (Affiliation, error) {
	s = strings.TrimSpace(s)
	for _, a := range Affiliations() {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}

	return "", serrors.With(serrors.ErrValidation, "unknown affiliation %q (want Friend, Foe or Neutral)", s)
}

// Coordinate bounds in degrees.
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLon = -180.0
	MaxLon = 180.0
)

// PointOfInterest is a named, geolocated, affiliation tagged position.
// It is a value: the store hands out copies and edits replace the element at
// its position with a new value, so earlier copies stay valid snapshots.
type PointOfInterest struct {
	Name        string
	Lat         float64
	Lon         float64
	Affiliation Affiliation
}

// NewPointOfInterest validates the fields and returns the resulting point.
// The name is trimmed. Errors carry the serrors.ErrValidation kind.
func NewPointOfInterest(name string, lat, lon float64, affiliation Affiliation) (PointOfInterest, error) {
	p := PointOfInterest{
		Name:        strings.TrimSpace(name),
		Lat:         lat,
		Lon:         lon,
		Affiliation: affiliation,
	}
	if err := p.Validate(); err != nil {
		return PointOfInterest{}, err
	}

	return p, nil
}

// Validate checks the name, coordinate ranges and affiliation of p. Names
// with leading or trailing whitespace are rejected so that a stored point
// reads back unchanged; NewPointOfInterest trims them instead.
func (p PointOfInterest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return serrors.With(serrors.ErrValidation, "name must not be empty")
	}
	if strings.TrimSpace(p.Name) != p.Name {
		return serrors.With(serrors.ErrValidation, "name %q has leading or trailing whitespace", p.Name)
	}
	if err := ValidateCoordinates(p.Lat, p.Lon); err != nil {
		return err
	}
	if !p.Affiliation.Valid() {
		return serrors.With(serrors.ErrValidation, "unknown affiliation %q", p.Affiliation)
	}

	return nil
}

// ValidateCoordinates checks that lat and lon are finite and inside the WGS84 ranges.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < MinLat || lat > MaxLat {
		return serrors.With(serrors.ErrValidation, "latitude %v outside [%v, %v]", lat, MinLat, MaxLat)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < MinLon || lon > MaxLon {
		return serrors.With(serrors.ErrValidation, "longitude %v outside [%v, %v]", lon, MinLon, MaxLon)
	}

	return nil
}
