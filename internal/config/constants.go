package config

import "time"

// Application constants
const (
	// Application Info
	AppName     = "volcanotrends"
	EnvPrefix   = "VOLCANO"
	DefaultPort = 8002

	// Dataset
	DefaultDatasetFile  = "merged_dataset.csv"
	DefaultFetchTimeout = 10 * time.Second

	// Analysis window of the merged dataset
	AnalysisFirstYear = 2017
	AnalysisLastYear  = 2021

	// Insight rules
	DefaultNoRelationshipThreshold = 0.1
	DefaultTopGenres               = 8
	MaxGenreLimit                  = 50

	// Rate Limiting
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 100

	// Network Timeouts
	DefaultRequestTimeout = 30 * time.Second

	// Rendered chart size
	DefaultChartWidth  = 1024
	DefaultChartHeight = 400
	MinChartSize       = 200
	MaxChartSize       = 2400
)

// DefaultGenreExclusions are top_genre values that never count as a genre
var DefaultGenreExclusions = []string{"unknown", "0"}

// API endpoints
const (
	APIBasePath     = "/api"
	MetricsEndpoint = "/metrics"
)
