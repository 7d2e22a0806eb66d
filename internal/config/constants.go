// Package config provides flag and environment configuration for the perfboard binaries.
package config

const (
	// DefaultAddress is the address the server listens on and the tools dial.
	DefaultAddress = "localhost:8080"

	// DefaultStoreInterval is the snapshot period in seconds.
	DefaultStoreInterval = 300

	// DefaultStoragePath is where the server keeps its snapshot between runs.
	DefaultStoragePath = "./perfboard-db.json"

	// DefaultRateLimit is the number of concurrent loader workers.
	DefaultRateLimit = 5

	// DefaultClientTimeout is the dashboard CLI request timeout in seconds.
	DefaultClientTimeout = 10
)
