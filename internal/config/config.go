package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const prefix = "CANCHA"

type App struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP server
	Host              string        `envconfig:"HOST" default:"localhost"`
	Port              string        `envconfig:"PORT" default:"8092"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"20s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"4s"`
	LivenessEndpoint  string        `envconfig:"LIVENESS_ENDPOINT" default:"/liveness"`
	AllowedOrigins    []string      `envconfig:"ALLOWED_ORIGINS" default:"https://canchalibre.ar"`

	// Upstream court API
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"https://api.canchalibre.ar"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	SiteURL    string        `envconfig:"SITE_URL" default:"https://canchalibre.ar"`

	// Reverse geocoding
	GeocoderBaseURL   string  `envconfig:"GEOCODER_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string  `envconfig:"GEOCODER_USER_AGENT" default:"CanchaLibre/1.0"`
	GeocoderRPS       float64 `envconfig:"GEOCODER_RPS" default:"1"`

	// Location catalog and autocomplete polling
	CatalogRefresh   time.Duration `envconfig:"CATALOG_REFRESH" default:"30m"`
	PollAttempts     int           `envconfig:"POLL_ATTEMPTS" default:"20"`
	PollInterval     time.Duration `envconfig:"POLL_INTERVAL" default:"200ms"`
	LocalityAttempts int           `envconfig:"LOCALITY_ATTEMPTS" default:"5"`
	LocalityInterval time.Duration `envconfig:"LOCALITY_INTERVAL" default:"300ms"`

	// Slot dates and times are local clock values in this zone.
	TimeZone string `envconfig:"TIME_ZONE" default:"America/Argentina/Buenos_Aires"`

	// Sessions
	SessionStore string        `envconfig:"SESSION_STORE" default:"memory"`
	SessionTTL   time.Duration `envconfig:"SESSION_TTL" default:"72h"`
	RedisAddr    string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass    string        `envconfig:"REDIS_PASSWORD"`
	RedisDB      int           `envconfig:"REDIS_DB" default:"0"`

	// Featured promotion defaults, used when the upstream config is unavailable.
	FeaturedPrice float64 `envconfig:"FEATURED_PRICE" default:"4999"`
	FeaturedDays  int     `envconfig:"FEATURED_DAYS" default:"30"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (App, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return App{}, fmt.Errorf("load env file: %w", err)
	}

	var c App
	if err := envconfig.Process(prefix, &c); err != nil {
		return App{}, fmt.Errorf("process env: %w", err)
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return App{}, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}

	return c, nil
}

func (c App) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}

	return loc
}
