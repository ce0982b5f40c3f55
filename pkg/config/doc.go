// Package config loads, saves, and derives connection URLs from the
// burrow configuration file (YAML or JSON).
package config
