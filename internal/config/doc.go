// Package config provides configuration loading, merging, and validation
// facilities for the go-yamdb server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. JSON config file
//  3. Environment variables (optionally seeded from a .env file)
//  4. Command-line flags
//
// The main entry point is [GetStructuredConfig]. The command-line client
// reads its smaller configuration with [GetClientConfig].
package config
