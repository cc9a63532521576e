package cli

import (
	"fmt"
	"os"

	"volcanotrends/internal/dataprocessing"
	"volcanotrends/internal/exporter"
	"volcanotrends/internal/validation"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	format, err := exporter.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	output := c.Output
	if output == "" {
		output = format.FileName()
	}

	cfg, err := loadConfig(c.globals, datasetOverrides{Source: c.Source, NoFallback: c.NoFallback})
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := validation.NewFileValidator(logger).ValidateOutputFile(output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	ctx, stop := signalContext()
	defer stop()

	ds, err := loadDataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	dash := dataprocessing.BuildDashboard(ds, dataprocessing.OptionsFromConfig(cfg.Insights))

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := exporter.Export(file, format, dash, ds.Records()); err != nil {
		file.Close()
		os.Remove(output)
		return fmt.Errorf("export %s: %w", format, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}

	if c.globals.JSON {
		return printJSON(map[string]interface{}{
			"output":  output,
			"format":  format,
			"source":  dash.Source,
			"records": dash.RecordCount,
		})
	}
	fmt.Printf("Exported %s records (%s) to %s\n", formatNumber(int64(dash.RecordCount)), format, output)
	return nil
}
