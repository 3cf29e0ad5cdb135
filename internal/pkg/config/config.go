package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Places       PlacesConfig       `mapstructure:"places"`
	Origin       OriginConfig       `mapstructure:"origin"`
	Autocomplete AutocompleteConfig `mapstructure:"autocomplete"`
	Map          MapConfig          `mapstructure:"map"`
	History      HistoryConfig      `mapstructure:"history"`
	NATS         NATSConfig         `mapstructure:"nats"`
	Valkey       ValkeyConfig       `mapstructure:"valkey"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PlacesConfig configures the Geoapify client.
type PlacesConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RateLimit      int    `mapstructure:"rate_limit"` // requests per second
	DefaultLimit   int    `mapstructure:"default_limit"`
}

// OriginConfig is the fallback city used when neither a manual nor a
// device origin is available.
type OriginConfig struct {
	DefaultLat   float64 `mapstructure:"default_lat"`
	DefaultLon   float64 `mapstructure:"default_lon"`
	DefaultLabel string  `mapstructure:"default_label"`
}

type AutocompleteConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
	MinChars   int `mapstructure:"min_chars"`
}

type MapConfig struct {
	TileURL     string  `mapstructure:"tile_url"`
	Attribution string  `mapstructure:"attribution"`
	DefaultZoom float64 `mapstructure:"default_zoom"`
}

type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
	TTLHours   int `mapstructure:"ttl_hours"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from .env, file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("places.api_key", "")
	v.SetDefault("places.base_url", "https://api.geoapify.com")
	v.SetDefault("places.timeout_seconds", 15)
	v.SetDefault("places.rate_limit", 5)
	v.SetDefault("places.default_limit", 20)
	v.SetDefault("origin.default_lat", 45.4642)
	v.SetDefault("origin.default_lon", 9.1900)
	v.SetDefault("origin.default_label", "Milan")
	v.SetDefault("autocomplete.debounce_ms", 300)
	v.SetDefault("autocomplete.min_chars", 2)
	v.SetDefault("map.tile_url", "https://maps.geoapify.com/v1/tile/carto/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "Powered by Geoapify | &copy; OpenStreetMap contributors")
	v.SetDefault("map.default_zoom", 13)
	v.SetDefault("history.max_entries", 10)
	v.SetDefault("history.ttl_hours", 720)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: LITPASS_PLACES_API_KEY → places.api_key
	v.SetEnvPrefix("LITPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Places.APIKey == "" {
		errs = append(errs, "places.api_key is required")
	}
	if c.Places.BaseURL == "" {
		errs = append(errs, "places.base_url is required")
	}
	if c.Places.TimeoutSeconds <= 0 {
		errs = append(errs, "places.timeout_seconds must be positive")
	}
	if c.Places.RateLimit <= 0 {
		errs = append(errs, "places.rate_limit must be positive")
	}
	if c.Origin.DefaultLat < -90 || c.Origin.DefaultLat > 90 {
		errs = append(errs, fmt.Sprintf("origin.default_lat out of range: %f", c.Origin.DefaultLat))
	}
	if c.Origin.DefaultLon < -180 || c.Origin.DefaultLon > 180 {
		errs = append(errs, fmt.Sprintf("origin.default_lon out of range: %f", c.Origin.DefaultLon))
	}
	if c.Autocomplete.DebounceMS <= 0 {
		errs = append(errs, "autocomplete.debounce_ms must be positive")
	}
	if c.Autocomplete.MinChars < 0 {
		errs = append(errs, "autocomplete.min_chars must not be negative")
	}
	if c.History.MaxEntries <= 0 {
		errs = append(errs, "history.max_entries must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
