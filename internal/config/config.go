package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the durable record, the map view,
// the local display server and the record watcher.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// Store contains durable record settings
	Store struct {
		// Path is the file holding the collection; .yaml/.yml selects YAML, anything else JSON
		Path string `env:"STORE_PATH" env-default:"missions.json" yaml:"path"`
	} `yaml:"store"`

	// Map contains the view and output of rendered maps
	Map struct {
		// CenterLat is the latitude at the middle of the map
		CenterLat float64 `env:"MAP_CENTER_LAT" env-default:"49.7433" yaml:"centerLat"`
		// CenterLon is the longitude at the middle of the map
		CenterLon float64 `env:"MAP_CENTER_LON" env-default:"15.1000" yaml:"centerLon"`
		// Zoom is the Web Mercator zoom level
		Zoom int `env:"MAP_ZOOM" env-default:"8" yaml:"zoom"`
		// Width of the drawing in pixels
		Width int `env:"MAP_WIDTH" env-default:"1024" yaml:"width"`
		// Height of the drawing in pixels
		Height int `env:"MAP_HEIGHT" env-default:"768" yaml:"height"`
		// Title shown on the page
		Title string `env:"MAP_TITLE" env-default:"Mission Briefing" yaml:"title"`
		// Output is where the render command writes the artifact
		Output string `env:"MAP_OUTPUT" env-default:"map.html" yaml:"output"`
		// Format selects the artifact format of the render command: html or geojson
		Format string `env:"MAP_FORMAT" env-default:"html" yaml:"format"`
	} `yaml:"map"`

	// HTTP contains the display server settings
	HTTP struct {
		// Addr is the address and port the display server listens on
		Addr string `env:"HTTP_ADDR" env-default:"127.0.0.1:8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"30s" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Watch contains the durable record watcher settings
	Watch struct {
		// Enabled refreshes the display whenever the record changes on disk
		Enabled bool `env:"WATCH_ENABLED" env-default:"false" yaml:"enabled"`
		// Debounce collapses bursts of file events into one refresh
		Debounce time.Duration `env:"WATCH_DEBOUNCE" env-default:"250ms" yaml:"debounce"`
	} `yaml:"watch"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"5s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// When the file does not exist and mustExist is false, only environment
// variables and defaults are used.
func Load(configPath string, mustExist bool) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(configPath)
	if configPath == "" || (errors.Is(statErr, fs.ErrNotExist) && !mustExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
