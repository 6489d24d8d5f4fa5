// Package config loads, normalizes, and validates mediasweep configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MEDIASWEEP_FFPROBE environment
// override. The Config type centralizes the probe binary, the codec policy,
// the state directory that holds run history and locks, and the logging
// options.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
