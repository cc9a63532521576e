package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"volcanotrends/internal/config"
	"volcanotrends/internal/dataprocessing"
	"volcanotrends/internal/infrastructure"
)

// datasetOverrides are the dataset flags shared by several subcommands
type datasetOverrides struct {
	Source     string
	Seed       uint64
	NoFallback bool
}

// loadConfig reads --config (or the standard locations) and applies the
// dataset overrides given on the command line.
func loadConfig(globals *GlobalFlags, ov datasetOverrides) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if globals.Config != "" {
		cfg, err = config.LoadFrom(globals.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if ov.Source != "" {
		cfg.Dataset.Source = ov.Source
	}
	if ov.Seed != 0 {
		cfg.Dataset.SyntheticSeed = ov.Seed
	}
	if ov.NoFallback {
		cfg.Dataset.Fallback = false
		cfg.Dataset.FallbackEmpty = false
	}
	if globals.Verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger installs the process logger for the command run. The returned
// func closes the log file, if one was opened.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, func() { _ = infrastructure.CloseLogFile() }, nil
}

// signalContext is cancelled on SIGINT or SIGTERM. Every log line of the
// command run shares its trace ID.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(infrastructure.EnsureTraceID(context.Background()), os.Interrupt, syscall.SIGTERM)
}

// loadDataset applies the configured source and fallback policy
func loadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataprocessing.Dataset, error) {
	ds, err := dataprocessing.NewLoader(cfg.Dataset, logger, nil).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", cfg.Dataset.Source, err)
	}
	return ds, nil
}

// printJSON writes v to stdout, indented
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatNumber formats an integer with comma separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
