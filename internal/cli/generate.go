package cli

import (
	"fmt"

	"volcanotrends/internal/dataprocessing"
	"volcanotrends/internal/exporter"
	"volcanotrends/internal/validation"
)

// generateJSON is the JSON output structure for the generate command.
type generateJSON struct {
	Output  string `json:"output"`
	Seed    uint64 `json:"seed"`
	Records int    `json:"records"`
	First   string `json:"first_period,omitempty"`
	Last    string `json:"last_period,omitempty"`
}

// Execute implements the go-flags Commander interface for GenerateCommand.
func (c *GenerateCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals, datasetOverrides{})
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := validation.NewFileValidator(logger).ValidateOutputFile(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	records := dataprocessing.NewSyntheticGenerator(c.Seed).Generate()

	writer := exporter.NewCSVWriter(exporter.WriteOptions{Logger: logger})
	if err := writer.WriteFile(c.Output, records); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}

	out := generateJSON{Output: c.Output, Seed: c.Seed, Records: len(records)}
	if len(records) > 0 {
		out.First = records[0].Period
		out.Last = records[len(records)-1].Period
	}

	if c.globals.JSON {
		return printJSON(out)
	}
	fmt.Printf("Wrote %s synthetic weeks to %s\n", formatNumber(int64(out.Records)), out.Output)
	if out.Records > 0 {
		fmt.Printf("Periods: %s .. %s\n", out.First, out.Last)
	}
	return nil
}
