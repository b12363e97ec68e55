// Package config handles configuration loading for the parlor TUI.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from PARLOR_CONFIG environment variable
//  2. ./parlor.yaml (current directory)
//  3. ~/.config/parlor/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	server:
//	  base_url: "${PARLOR_SERVER}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	users:
//	  cache_ttl: "10m"
//
// # Example
//
//	server:
//	  base_url: "http://localhost:3000"
//	pagination:
//	  initial_page_size: 10
//	  older_page_size: 5
//	users:
//	  cache_ttl: "10m"
//	  cache_size: 1024
//	logging:
//	  level: "info"
//	  format: "text"
package config
