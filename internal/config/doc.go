// Package config loads, normalizes, and validates skymaya configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SKYMAYA_CKCMD environment
// override for the converter binary. Files are looked up at an explicit
// path, then ~/.config/skymaya/config.toml, then ./skymaya.toml.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
