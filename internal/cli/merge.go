package cli

import (
	"fmt"

	"volcanotrends/internal/dataprocessing"
	"volcanotrends/internal/exporter"
	"volcanotrends/internal/validation"
)

// mergeJSON is the JSON output structure for the merge command.
type mergeJSON struct {
	Output string `json:"output"`
	dataprocessing.MergeSummary
}

// Execute implements the go-flags Commander interface for MergeCommand.
func (c *MergeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals, datasetOverrides{})
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(c.Volcano, ".csv"); err != nil {
		return fmt.Errorf("volcano input: %w", err)
	}
	if err := validator.ValidateInputFile(c.Charts, ".csv"); err != nil {
		return fmt.Errorf("charts input: %w", err)
	}
	if err := validator.ValidateOutputFile(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	ctx, stop := signalContext()
	defer stop()

	records, summary, err := dataprocessing.NewMerger(logger).MergeFiles(ctx, c.Volcano, c.Charts)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	writer := exporter.NewCSVWriter(exporter.WriteOptions{Logger: logger})
	if err := writer.WriteFile(c.Output, records); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}

	if c.globals.JSON {
		return printJSON(mergeJSON{Output: c.Output, MergeSummary: summary})
	}

	fmt.Printf("Eruptions read:      %s (%s weeks)\n", formatNumber(int64(summary.Eruptions)), formatNumber(int64(summary.VolcanoWeeks)))
	fmt.Printf("Chart entries read:  %s (%s weeks)\n", formatNumber(int64(summary.ChartEntries)), formatNumber(int64(summary.ChartWeeks)))
	fmt.Printf("Merged periods:      %s\n", formatNumber(int64(summary.Periods)))
	fmt.Printf("Written to:          %s\n", c.Output)
	return nil
}
