// Package metrics holds values shared by the instrumented components.
package metrics

// RenderBuckets are histogram buckets in seconds for map rendering. A render
// of a briefing-sized collection takes well under a millisecond, so the low
// end is finer than the usual request-latency buckets.
var RenderBuckets = []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, 1} //nolint: gochecknoglobals
