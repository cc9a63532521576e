package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "volcanotrends/internal/errors"
)

// TestLoadFrom tests configuration layering with various scenarios
func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8002, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
				assert.Equal(t, []string{"http://localhost:8002"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "merged_dataset.csv", cfg.Dataset.Source)
				assert.True(t, cfg.Dataset.Fallback)
				assert.Equal(t, 0.1, cfg.Insights.NoRelationshipThreshold)
				assert.Equal(t, []string{"unknown", "0"}, cfg.Insights.GenreExclusions)
				assert.Equal(t, 8, cfg.Insights.TopGenres)
				assert.Equal(t, 1024, cfg.Charts.Width)
			},
		},
		{
			name: "file values overlay defaults",
			fileContent: `
server:
  port: 9000
  read_timeout: 5s
dataset:
  source: data/weekly.csv
  fallback: false
insights:
  no_relationship_threshold: 0.2
  genre_exclusions: ["unknown", "0", "n/a"]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "data/weekly.csv", cfg.Dataset.Source)
				assert.False(t, cfg.Dataset.Fallback)
				assert.Equal(t, 0.2, cfg.Insights.NoRelationshipThreshold)
				assert.Equal(t, []string{"unknown", "0", "n/a"}, cfg.Insights.GenreExclusions)
			},
		},
		{
			name: "environment overrides file",
			fileContent: `
server:
  port: 9000
`,
			env: map[string]string{
				"VOLCANO_SERVER_PORT":         "9100",
				"VOLCANO_LOGGING_LEVEL":       "debug",
				"VOLCANO_DATASET_SOURCE":      "https://example.org/merged.csv",
				"VOLCANO_INSIGHTS_TOP_GENRES": "5",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "https://example.org/merged.csv", cfg.Dataset.Source)
				assert.Equal(t, 5, cfg.Insights.TopGenres)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"VOLCANO_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "unsupported log output",
			env:     map[string]string{"VOLCANO_LOGGING_OUTPUT": "syslog"},
			wantErr: true,
		},
		{
			name:    "threshold outside unit interval",
			env:     map[string]string{"VOLCANO_INSIGHTS_NO_RELATIONSHIP_THRESHOLD": "1.5"},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "server: [unterminated",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.fileContent != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.fileContent), 0644))
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	_, err := LoadFrom(path)
	require.Error(t, err)

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
	assert.Equal(t, path, appErr.Context["path"])
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFrom_InvalidValueIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charts:\n  width: 10\n"), 0644))

	_, err := LoadFrom(path)
	require.Error(t, err)

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
	assert.Contains(t, err.Error(), "[CONFIG] invalid configuration: ")
	assert.Contains(t, err.Error(), "charts.width")
}

func TestValidate_ReportsYAMLFieldNames(t *testing.T) {
	cfg := Default()
	cfg.Charts.Width = 10
	cfg.Telemetry.TraceExporter = "otlp"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charts.width")
	assert.Contains(t, err.Error(), "telemetry.trace_exporter")
}

func TestValidate_FilePathRequiredForFileOutput(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""
	assert.Error(t, cfg.Validate())

	cfg.Logging.Output = "console"
	assert.NoError(t, cfg.Validate())
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	a.Insights.GenreExclusions[0] = "changed"
	assert.Equal(t, "unknown", b.Insights.GenreExclusions[0])
	assert.Equal(t, "unknown", DefaultGenreExclusions[0])
}
