package cli

import (
	"fmt"
	"math"

	"volcanotrends/internal/dataprocessing"
	"volcanotrends/pkg/contracts/domain"
)

// Execute implements the go-flags Commander interface for SummaryCommand.
func (c *SummaryCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals, datasetOverrides{Source: c.Source, Seed: c.Seed, NoFallback: c.NoFallback})
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()

	ds, err := loadDataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	dash := dataprocessing.BuildDashboard(ds, dataprocessing.OptionsFromConfig(cfg.Insights))

	if c.globals.JSON {
		return printJSON(dash)
	}
	printSummary(dash)
	return nil
}

func printSummary(dash domain.Dashboard) {
	stats := dash.Stats

	source := string(dash.Source)
	if dash.Location != "" {
		source = fmt.Sprintf("%s (%s)", dash.Source, dash.Location)
	}
	fmt.Printf("Dataset: %s\n\n", source)

	fmt.Printf("Total weeks analyzed:        %s\n", formatNumber(int64(stats.RecordCount)))
	fmt.Printf("Weeks with volcano activity: %s\n", formatNumber(int64(stats.ActiveWeeks)))
	fmt.Printf("Total eruptions:             %s\n", formatNumber(int64(stats.TotalEruptions)))
	fmt.Printf("Average VEI:                 %.2f\n", stats.MeanAvgVEI)
	fmt.Printf("Max VEI recorded:            %g\n", stats.MaxVEI)
	fmt.Printf("Total streams:               %s (%s)\n", formatNumber(stats.TotalStreams), stats.TotalStreamsLabel)
	fmt.Printf("Average weekly streams:      %s\n", formatNumber(int64(math.Round(stats.MeanStreams))))
	fmt.Printf("Most common genre:           %s\n", mostCommonGenre(dash.Charts.Genres))
	fmt.Printf("Correlation (eruptions vs streams): %.3f\n", dash.Correlation)

	fmt.Println()
	fmt.Println("Insights:")
	fmt.Printf("  Volcano:     %s\n", dash.Insights.Volcano)
	fmt.Printf("  Music:       %s\n", dash.Insights.Music)
	fmt.Printf("  Correlation: %s\n", dash.Insights.Correlation)
}

func mostCommonGenre(genres []domain.GenreCount) string {
	if len(genres) == 0 {
		return "N/A"
	}
	return genres[0].Genre
}
