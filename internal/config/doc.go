// Package config defines the single configuration value shared by every
// stage of the floor-plan analysis.
//
// # Sources
//
// The effective configuration is assembled in three layers:
//
//  1. Default: thresholds tuned for 300 DPI German floor plans
//  2. An optional YAML file (see LoadFile); absent keys keep their defaults
//  3. AUFMASS_* environment variables (see ApplyEnv)
//
// Validate runs last and rejects out-of-range thresholds and inverted
// min/max pairs.
//
// # Immutability
//
// Config is a plain value. Components copy it at construction and never
// write back, so one Config can be shared across goroutines.
package config
