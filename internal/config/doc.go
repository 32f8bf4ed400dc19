// Package config provides layered configuration for the trip analysis
// commands: defaults, an optional YAML config file, and RIDE_* environment
// variables, validated before use. It also owns the path layout every
// artifact is read from and written to.
package config
