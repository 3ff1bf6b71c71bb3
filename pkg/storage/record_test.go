package storage_test

import (
	"testing"

	"briefing/pkg/domain"
	"briefing/pkg/serrors"
	"briefing/pkg/storage"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestRecordsRoundTrip(t *testing.T) {
	pois := []domain.PointOfInterest{
		{Name: "Alpha", Lat: 49.74, Lon: 15.10, Affiliation: domain.AffiliationFriend},
		{Name: "Alpha", Lat: 49.74, Lon: 15.10, Affiliation: domain.AffiliationFriend},
		{Name: "Bravo", Lat: -12.5, Lon: 0, Affiliation: domain.AffiliationFoe},
	}

	got, err := storage.FromRecords(storage.ToRecords(pois))
	require.NoError(t, err)
	if diff := cmp.Diff(pois, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRecords_Corrupt(t *testing.T) {
	tests := []struct {
		name   string
		record storage.Record
	}{
		{name: "missing lat", record: storage.Record{Name: "A", Lon: ptr(1), Affiliation: "Friend"}},
		{name: "missing lon", record: storage.Record{Name: "A", Lat: ptr(1), Affiliation: "Friend"}},
		{name: "empty name", record: storage.Record{Lat: ptr(1), Lon: ptr(1), Affiliation: "Friend"}},
		{name: "padded name", record: storage.Record{Name: " A ", Lat: ptr(1), Lon: ptr(1), Affiliation: "Friend"}},
		{name: "lat out of range", record: storage.Record{Name: "A", Lat: ptr(91), Lon: ptr(1), Affiliation: "Foe"}},
		{name: "unknown affiliation", record: storage.Record{Name: "A", Lat: ptr(1), Lon: ptr(1), Affiliation: "ally"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.FromRecords([]storage.Record{tt.record})
			require.ErrorIs(t, err, serrors.ErrCorruptStore)
		})
	}
}
