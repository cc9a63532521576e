package cli

import (
	"fmt"
	"io/fs"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"volcanotrends/internal/config"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve    *ServeCommand
	Summary  *SummaryCommand
	Merge    *MergeCommand
	Generate *GenerateCommand
	Export   *ExportCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
// frontend is handed to serve and may be nil.
func buildParser(version string, frontend fs.FS) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = config.AppName
	parser.LongDescription = "Weekly volcanic eruptions set against music streaming trends: dashboard server and dataset tools."

	cmds := &commands{
		Serve:    &ServeCommand{globals: &globals, version: version, frontend: frontend},
		Summary:  &SummaryCommand{globals: &globals, version: version},
		Merge:    &MergeCommand{globals: &globals, version: version},
		Generate: &GenerateCommand{globals: &globals, version: version},
		Export:   &ExportCommand{globals: &globals, version: version},
	}

	parser.AddCommand("serve", "Start the dashboard server", "Load the dataset and serve the dashboard, its JSON API and chart images.", cmds.Serve)
	parser.AddCommand("summary", "Print dataset statistics", "Load the dataset and print the summary statistics and generated insights.", cmds.Summary)
	parser.AddCommand("merge", "Build the merged dataset", "Join a volcano eruption export with a weekly streaming chart export into the merged weekly dataset.", cmds.Merge)
	parser.AddCommand("generate", "Write a synthetic dataset", "Write a deterministic synthetic weekly dataset in the merged layout.", cmds.Generate)
	parser.AddCommand("export", "Export the dataset", "Load the dataset and write it as CSV or as an XLSX workbook with summary sheets.", cmds.Export)

	return parser, &globals, cmds
}

// Run is the main entry point using os.Args.
func Run(version string, frontend fs.FS) error {
	return RunWithArgs(version, frontend, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, frontend fs.FS, args []string) error {
	// --version is valid without a subcommand
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("%s %s\n", config.AppName, version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version, frontend)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
