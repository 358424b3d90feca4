// Package config provides configuration management for dendrocli.
// It handles loading configuration from multiple sources, validation, and
// conversion into the option types of the parsing and export packages.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (--config, dendro.yaml or configs/dendro.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DENDRO_<SECTION>_<FIELD>:
//
//	DENDRO_LOGGING_LEVEL=debug
//	DENDRO_PARSE_SCALE=1000
//	DENDRO_PARSE_DROP_STOP_MARKERS=true
//	DENDRO_EXPORT_MISSING_TEXT=
//	DENDRO_BATCH_WORKERS=8
//
// # Configuration File
//
//	logging:
//	  level: debug
//	parse:
//	  scale: 1000
//	export:
//	  format: xlsx
//	  precision: 3
//
// Unknown keys are rejected.
//
// # Validation
//
// Load validates with go-playground/validator: levels and formats must be one
// of the known values, Scale must be positive, Precision lies in -1..15.
//
// # Usage
//
//	cfg, err := config.Load(configPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	parser := dataprocessing.NewParser(cfg.Parse.Options(), logger)
//
// # Testing
//
// Use config.Default() for a valid configuration that needs no environment
// variables or files.
package config
