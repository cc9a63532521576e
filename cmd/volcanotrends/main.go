package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"volcanotrends/internal/cli"
	"volcanotrends/pkg/contracts"
)

// Embedded dashboard page, styles and script
//
//go:embed all:frontend/*
var frontendFiles embed.FS

func main() {
	var frontendFS fs.FS
	if frontendSubFS, err := fs.Sub(frontendFiles, "frontend"); err == nil {
		frontendFS = frontendSubFS
	} else {
		slog.Warn("Frontend embedding failed, serving API only", slog.String("error", err.Error()))
	}

	if err := cli.Run(contracts.Version, frontendFS); err != nil {
		os.Exit(1)
	}
}
