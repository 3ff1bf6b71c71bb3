package display

import (
	"net/http"
	"time"

	"briefing/internal/config"
	"briefing/pkg/controller"
)

// Options holds configuration for the HTTP server.
// It is typically created from a config.Config via NewOptions.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. "127.0.0.1:8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is applied via http.TimeoutHandler to every request.
	RequestTimeout time.Duration
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
}

// NewOptions maps the HTTP settings of config.Config to Options.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MetricsPath:       cfg.HTTP.MetricsPath,
	}
}

// Deps are the components served by the display server.
type Deps struct {
	Handler   *Handler
	Telemetry *Telemetry
}

// NewServer wires up and returns a configured *http.Server:
//   - GET / index page with a Refresh button around the current map
//   - GET /map.html the current artifact
//   - POST /refresh re-read the record, re-render and redirect to /
//   - GET /map.geojson the collection as GeoJSON, readable cross-origin
//   - Prometheus metrics at MetricsPath and pprof under /debug/pprof/
//
// Every request gets a request-scoped logger and the request timeout.
func NewServer(deps Deps, opts Options) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", deps.Handler.index)
	mux.HandleFunc("GET /map.html", deps.Handler.artifact)
	mux.HandleFunc("POST /refresh", deps.Handler.refresh)

	geojson := controller.WithCORS(http.HandlerFunc(deps.Handler.exportGeoJSON))
	mux.Handle("GET /map.geojson", geojson)
	mux.Handle("OPTIONS /map.geojson", geojson)

	if deps.Telemetry != nil && opts.MetricsPath != "" {
		mux.Handle("GET "+opts.MetricsPath, deps.Telemetry.Handler())
	}

	mux.Handle("GET /debug/pprof/", controller.Pprof("/debug/pprof/"))

	var handler http.Handler = mux
	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout, "request timed out")
	}
	handler = controller.WithLogger(handler)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
	}
}
