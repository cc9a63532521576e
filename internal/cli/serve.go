package cli

import (
	"fmt"

	"volcanotrends/internal/app"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals, datasetOverrides{Source: c.Source, NoFallback: c.NoFallback})
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	application, err := app.NewApplication(cfg, logger, c.frontend)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	ctx, stop := signalContext()
	defer stop()

	if !c.globals.JSON {
		fmt.Printf("Volcano trends dashboard %s\n", c.version)
		fmt.Printf("Dataset:  %s\n", cfg.Dataset.Source)
		fmt.Printf("Open:     http://localhost:%d\n", cfg.Server.Port)
		fmt.Println("Press Ctrl+C to stop")
	}

	return application.Run(ctx)
}
