package cli

import "io/fs"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ServeCommand starts the HTTP dashboard.
type ServeCommand struct {
	Port       int    `long:"port" description:"Listen port (overrides config)"`
	Source     string `long:"source" description:"Dataset file path or http(s) URL (overrides config)"`
	NoFallback bool   `long:"no-fallback" description:"Fail instead of serving synthetic data when the dataset cannot be read"`

	globals  *GlobalFlags
	version  string
	frontend fs.FS
}

// SummaryCommand prints the dashboard statistics and insights.
type SummaryCommand struct {
	Source     string `long:"source" description:"Dataset file path or http(s) URL (overrides config)"`
	Seed       uint64 `long:"seed" description:"Seed for synthetic fallback data (0 draws a fresh seed)"`
	NoFallback bool   `long:"no-fallback" description:"Fail instead of summarizing synthetic data"`

	globals *GlobalFlags
	version string
}

// MergeCommand joins the raw volcano and chart exports.
type MergeCommand struct {
	Volcano string `long:"volcano" description:"Volcano eruption export (CSV with start_year, start_month, start_day, vei)" required:"true"`
	Charts  string `long:"charts" description:"Weekly streaming chart export (semicolon-separated)" required:"true"`
	Output  string `long:"output" short:"o" description:"Merged dataset path" default:"merged_dataset.csv"`

	globals *GlobalFlags
	version string
}

// GenerateCommand writes a synthetic merged dataset.
type GenerateCommand struct {
	Seed   uint64 `long:"seed" description:"Generator seed (0 draws a fresh seed)" default:"42"`
	Output string `long:"output" short:"o" description:"Output path" default:"merged_dataset.csv"`

	globals *GlobalFlags
	version string
}

// ExportCommand writes the loaded dataset in a download format.
type ExportCommand struct {
	Format     string `long:"format" short:"f" description:"Export format" choice:"csv" choice:"xlsx" default:"csv"`
	Output     string `long:"output" short:"o" description:"Output path (defaults to the format's download name)"`
	Source     string `long:"source" description:"Dataset file path or http(s) URL (overrides config)"`
	NoFallback bool   `long:"no-fallback" description:"Fail instead of exporting synthetic data"`

	globals *GlobalFlags
	version string
}
