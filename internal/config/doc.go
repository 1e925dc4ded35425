// Package config provides centralized configuration management for ytstats.
// It loads configuration from multiple sources, validates it, and exposes a
// type-safe struct to the rest of the application.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//	1. Default() values
//	2. A YAML file (config.yaml or configs/config.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern YTSTATS_<SECTION>_<KEY>:
//
//	YTSTATS_SERVER_PORT=8080
//	YTSTATS_DATASET_SOURCE_PATH=data/Global_YouTube_Statistics.csv
//	YTSTATS_DATASET_ENCODING=latin-1
//	YTSTATS_LOGGING_LEVEL=debug
//	YTSTATS_QUERY_MAX_LIMIT=500
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests should start from config.Default() and adjust the fields they need.
package config
