package maprender_test

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"briefing/internal/maprender"
	"briefing/pkg/domain"
	"briefing/pkg/serrors"

	"github.com/stretchr/testify/require"
)

var markerTag = regexp.MustCompile(`<g class="marker marker-(\w+)" data-name="([^"]*)" data-lat="([^"]*)" data-lon="([^"]*)" data-affiliation="([^"]*)" data-marker="(\w+)"`)

func renderHTML(t *testing.T, pois []domain.PointOfInterest) *maprender.Artifact {
	t.Helper()

	a, err := maprender.NewHTML().Render(context.Background(), pois, maprender.DefaultView())
	require.NoError(t, err)
	require.Equal(t, maprender.HTMLContentType, a.ContentType)

	return a
}

func embeddedGeoJSON(t *testing.T, content []byte) maprender.FeatureCollection {
	t.Helper()

	start := bytes.Index(content, []byte(`<script type="application/json" id="poi-data">`))
	require.NotEqual(t, -1, start)
	rest := content[start:]
	rest = rest[bytes.IndexByte(rest, '>')+1:]
	end := bytes.Index(rest, []byte("</script>"))
	require.NotEqual(t, -1, end)

	var fc maprender.FeatureCollection
	require.NoError(t, json.Unmarshal(rest[:end], &fc))

	return fc
}

func TestHTML_SingleFriendScenario(t *testing.T) {
	alpha, err := domain.NewPointOfInterest("Alpha", 49.74, 15.10, domain.AffiliationFriend)
	require.NoError(t, err)

	a := renderHTML(t, []domain.PointOfInterest{alpha})

	tags := markerTag.FindAllStringSubmatch(string(a.Content), -1)
	require.Len(t, tags, 1)
	require.Equal(t, []string{"friend", "Alpha", "49.74", "15.1", "Friend", "friend"}, tags[0][1:])

	fc := embeddedGeoJSON(t, a.Content)
	require.Len(t, fc.Features, 1)
	require.Equal(t, [2]float64{15.10, 49.74}, fc.Features[0].Geometry.Coordinates)
	require.Equal(t, "Friend", fc.Features[0].Properties.Affiliation)
}

func TestHTML_EmptyCollection(t *testing.T) {
	a := renderHTML(t, []domain.PointOfInterest{})

	require.Empty(t, a.Markers)
	require.Empty(t, markerTag.FindAllString(string(a.Content), -1))
	require.Empty(t, embeddedGeoJSON(t, a.Content).Features)
	require.Contains(t, string(a.Content), "0 markers")
}

func TestHTML_RenderCompleteness(t *testing.T) {
	pois := []domain.PointOfInterest{
		{Name: "Alpha", Lat: 49.74, Lon: 15.10, Affiliation: domain.AffiliationFriend},
		{Name: "Bravo", Lat: 50.08, Lon: 14.42, Affiliation: domain.AffiliationFoe},
		{Name: "Bravo", Lat: 50.08, Lon: 14.42, Affiliation: domain.AffiliationFoe},
		{Name: "Far away", Lat: -33.9, Lon: -70.6, Affiliation: domain.AffiliationNeutral},
		{Name: "Mystery", Lat: 48, Lon: 17, Affiliation: "Unknown"},
	}

	a := renderHTML(t, pois)
	tags := markerTag.FindAllStringSubmatch(string(a.Content), -1)
	require.Len(t, tags, len(pois))
	require.Len(t, a.Markers, len(pois))

	wantIcons := []string{"friend", "foe", "foe", "neutral", "neutral"}
	for i, tag := range tags {
		require.Equal(t, pois[i].Name, tag[2])
		require.Equal(t, string(pois[i].Affiliation), tag[5])
		require.Equal(t, wantIcons[i], tag[6])
	}
}

func TestHTML_EscapesNames(t *testing.T) {
	pois := []domain.PointOfInterest{
		{Name: `<script>alert("x")</script>`, Lat: 49, Lon: 15, Affiliation: domain.AffiliationFoe},
	}

	a := renderHTML(t, pois)
	require.NotContains(t, string(a.Content), `<script>alert`)
	require.Equal(t, pois[0].Name, embeddedGeoJSON(t, a.Content).Features[0].Properties.Name)
}

func TestHTML_Deterministic(t *testing.T) {
	pois := []domain.PointOfInterest{
		{Name: "Alpha", Lat: 49.74, Lon: 15.10, Affiliation: domain.AffiliationFriend},
		{Name: "Bravo", Lat: 50.08, Lon: 14.42, Affiliation: domain.AffiliationFoe},
	}

	first := renderHTML(t, pois)
	second := renderHTML(t, pois)
	require.Equal(t, first.Content, second.Content)

	reordered := renderHTML(t, []domain.PointOfInterest{pois[1], pois[0]})
	require.NotEqual(t, first.Content, reordered.Content)
}

func TestHTML_SkipsOutOfRangeAndRendersRest(t *testing.T) {
	pois := []domain.PointOfInterest{
		{Name: "Bad", Lat: 200, Lon: 15, Affiliation: domain.AffiliationFoe},
		{Name: "Good", Lat: 49, Lon: 15, Affiliation: domain.AffiliationFriend},
	}

	a := renderHTML(t, pois)
	require.Equal(t, 1, a.Skipped)
	require.Len(t, markerTag.FindAllString(string(a.Content), -1), 1)
	require.True(t, strings.Contains(string(a.Content), "1 skipped"))
}

func TestHTML_CentreIsMiddleOfMap(t *testing.T) {
	v := maprender.DefaultView()
	pois := []domain.PointOfInterest{{Name: "Centre", Lat: v.CenterLat, Lon: v.CenterLon, Affiliation: domain.AffiliationNeutral}}

	a := renderHTML(t, pois)
	require.Contains(t, string(a.Content), `transform="translate(512 384)"`)
}

func TestHTML_InvalidView(t *testing.T) {
	v := maprender.DefaultView()
	v.Zoom = 42

	_, err := maprender.NewHTML().Render(context.Background(), nil, v)
	require.ErrorIs(t, err, serrors.ErrRender)
}

func TestHTML_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := maprender.NewHTML().Render(ctx, nil, maprender.DefaultView())
	require.ErrorIs(t, err, serrors.ErrRender)
	require.ErrorIs(t, err, context.Canceled)
}
