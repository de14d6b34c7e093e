// Package config loads, normalizes, and validates asrprep configuration.
//
// Values come from repository defaults, an optional TOML file and environment
// fallbacks (ASRPREP_INPUT_DIR, ASRPREP_OUTPUT_DIR). CLI flags are applied on
// top by the caller before Validate runs.
package config
