// Package config loads YAML configuration with environment variable
// expansion, defaulting, and validation.
package config
