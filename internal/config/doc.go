// Package config loads, normalizes, and validates Merlin configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MERLIN_WORK_DIR. The Config type centralizes the tool locations, recognizer
// settings, render naming rules and default caption style the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
