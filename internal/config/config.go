package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apierrors "volcanotrends/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Insights  InsightsConfig  `yaml:"insights" envconfig:"INSIGHTS"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains CORS and rate limiting configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains OpenTelemetry exporter selection
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
}

// DatasetConfig describes where the merged weekly dataset is read from
type DatasetConfig struct {
	// Source is a local file path or an http(s) URL.
	Source        string        `yaml:"source" envconfig:"SOURCE" validate:"required"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" validate:"gt=0"`
	Fallback      bool          `yaml:"fallback" envconfig:"FALLBACK"`
	FallbackEmpty bool          `yaml:"fallback_empty" envconfig:"FALLBACK_EMPTY"`
	// SyntheticSeed fixes the synthetic generator; 0 seeds from the clock.
	SyntheticSeed uint64 `yaml:"synthetic_seed" envconfig:"SYNTHETIC_SEED"`
}

// InsightsConfig holds the business rules used by the insight formatter
type InsightsConfig struct {
	NoRelationshipThreshold float64  `yaml:"no_relationship_threshold" envconfig:"NO_RELATIONSHIP_THRESHOLD" validate:"gte=0,lte=1"`
	GenreExclusions         []string `yaml:"genre_exclusions" envconfig:"GENRE_EXCLUSIONS"`
	TopGenres               int      `yaml:"top_genres" envconfig:"TOP_GENRES" validate:"min=1,max=50"`
}

// ChartsConfig holds default image sizes for rendered charts
type ChartsConfig struct {
	Width  int `yaml:"width" envconfig:"WIDTH" validate:"min=200,max=2400"`
	Height int `yaml:"height" envconfig:"HEIGHT" validate:"min=200,max=2400"`
}

// Load builds the configuration from defaults, the first config file found
// in the standard locations, and VOLCANO_* environment variables.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apierrors.NewConfigError("load config file", err).WithContext("path", path)
		}
	}

	// Fields without a matching variable keep their file or default value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apierrors.NewConfigError("load config from environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field against its validate tag
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return apierrors.NewConfigError("invalid configuration: "+strings.Join(msgs, "; "), nil)
		}
		return apierrors.NewConfigError("invalid configuration", err)
	}
	return nil
}

// findConfigFile returns the first config file found in the common locations
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{fmt.Sprintf("http://localhost:%d", DefaultPort)},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/volcanotrends.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Dataset: DatasetConfig{
			Source:        DefaultDatasetFile,
			FetchTimeout:  DefaultFetchTimeout,
			Fallback:      true,
			FallbackEmpty: true,
		},
		Insights: InsightsConfig{
			NoRelationshipThreshold: DefaultNoRelationshipThreshold,
			GenreExclusions:         append([]string(nil), DefaultGenreExclusions...),
			TopGenres:               DefaultTopGenres,
		},
		Charts: ChartsConfig{
			Width:  DefaultChartWidth,
			Height: DefaultChartHeight,
		},
	}
}
