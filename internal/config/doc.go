// Package config provides centralized configuration management for volcanotrends.
// It loads configuration from multiple sources, validates it, and exposes a
// type-safe struct to the rest of the application.
//
// # Configuration Sources
//
// Configuration is assembled in layers, later layers overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file (config.yaml, configs/config.yaml or an explicit path)
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern VOLCANO_<SECTION>_<FIELD>:
//
//	VOLCANO_SERVER_PORT=8002
//	VOLCANO_DATASET_SOURCE=https://example.org/merged_dataset.csv
//	VOLCANO_LOGGING_LEVEL=debug
//	VOLCANO_INSIGHTS_NO_RELATIONSHIP_THRESHOLD=0.15
//	VOLCANO_INSIGHTS_GENRE_EXCLUSIONS=unknown,0,n/a
//
// # Validation
//
// Every field carries a go-playground/validator tag. Validate reports all
// failing fields at once using their YAML names.
package config
