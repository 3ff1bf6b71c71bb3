package maprender

import (
	"math"
	"strconv"
)

const (
	tileSize = 256
	// maxMercatorLat is where Web Mercator turns the map into a square.
	maxMercatorLat = 85.05112878
)

// mercator projects WGS84 coordinates to world pixels at a zoom level.
type mercator struct {
	scale float64
}

func newMercator(zoom int) mercator {
	return mercator{scale: tileSize * math.Exp2(float64(zoom))}
}

func (m mercator) project(lat, lon float64) (x, y float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	sin := math.Sin(lat * math.Pi / 180)
	x = (lon + 180) / 360 * m.scale
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * m.scale

	return x, y
}

func (m mercator) unproject(x, y float64) (lat, lon float64) {
	lon = x/m.scale*360 - 180
	n := math.Pi - 2*math.Pi*y/m.scale
	lat = 180 / math.Pi * math.Atan(math.Sinh(n))

	return lat, lon
}

// viewport maps coordinates to pixels of a view, with the view centre in the
// middle of the drawing.
type viewport struct {
	proj          mercator
	originX       float64
	originY       float64
	width, height float64
}

func newViewport(v View) viewport {
	proj := newMercator(v.Zoom)
	cx, cy := proj.project(v.CenterLat, v.CenterLon)

	return viewport{
		proj:    proj,
		originX: cx - float64(v.Width)/2,
		originY: cy - float64(v.Height)/2,
		width:   float64(v.Width),
		height:  float64(v.Height),
	}
}

func (vp viewport) point(lat, lon float64) (x, y float64) {
	wx, wy := vp.proj.project(lat, lon)

	return wx - vp.originX, wy - vp.originY
}

// bounds returns the coordinates of the north-west and south-east corners.
func (vp viewport) bounds() (north, west, south, east float64) {
	north, west = vp.proj.unproject(vp.originX, vp.originY)
	south, east = vp.proj.unproject(vp.originX+vp.width, vp.originY+vp.height)

	return north, west, south, east
}

// gridSteps are graticule spacings in degrees, coarsest first.
var gridSteps = []float64{30, 10, 5, 2, 1, 0.5, 0.25, 0.1, 0.05, 0.02, 0.01} //nolint: gochecknoglobals

// gridStep picks the coarsest spacing that yields at least three lines over span.
func gridStep(span float64) float64 {
	for _, s := range gridSteps {
		if span/s >= 3 {
			return s
		}
	}

	return gridSteps[len(gridSteps)-1]
}

// gridValues lists multiples of step inside [from, to].
func gridValues(from, to, step float64) []float64 {
	first := math.Ceil(from / step)
	last := math.Floor(to / step)
	if last-first > 64 {
		last = first + 64
	}

	out := make([]float64, 0, int(last-first)+1)
	for k := first; k <= last; k++ {
		out = append(out, k*step)
	}

	return out
}

// formatNumber renders v with at most two decimals and without a negative zero.
func formatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}

	return strconv.FormatFloat(r, 'f', -1, 64)
}

// formatCoord renders a coordinate exactly as stored.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
