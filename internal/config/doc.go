// Package config loads, normalizes, and validates brigade configuration data.
//
// It supplies repository defaults (including the default menu), expands user
// paths, reads TOML files, and honours the BRIGADE_SEED environment fallback.
// The Config type centralizes every knob the kitchen and CLI need so sizing,
// timing, and menu content are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and typed validation errors.
package config
