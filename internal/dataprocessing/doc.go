// Package dataprocessing turns the merged weekly volcano/streaming dataset
// into everything the dashboard shows.
//
// # Components
//
//  1. Parser: reads the merged CSV into domain.Record values
//  2. Loader: fetches the CSV from a file or URL and falls back to the
//     synthetic generator when the source is unusable
//  3. Aggregator: totals, yearly VEI buckets, genre frequency and means
//  4. Correlation and insights: Pearson coefficient and the three summary
//     sentences
//  5. Series: assembles chart datasets, stats and the full domain.Dashboard
//  6. Merger: builds the merged CSV from raw eruption and chart exports
//
// # Data Flow
//
//	eruptions.csv + spotify.csv → Merger → merged CSV
//	merged CSV → Loader → Dataset → BuildDashboard → Dashboard
//
// Every computation is a pure function of its inputs. A Dataset is never
// mutated after construction, so it can be shared across goroutines.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(cfg.Dataset, logger, metrics)
//	ds, err := loader.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	dash := dataprocessing.BuildDashboard(ds, dataprocessing.OptionsFromConfig(cfg.Insights))
package dataprocessing
