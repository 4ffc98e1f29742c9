package redis

import "time"

// DefaultKeyPrefix namespaces every key written by the profile store
const DefaultKeyPrefix = "hcstats"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// KeyPrefix lets several stats servers share one Redis database
	KeyPrefix string

	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration

	// ProfileTTL bounds how long a resolved profile is kept. Zero keeps it forever.
	ProfileTTL time.Duration
}

// DefaultConfig returns the settings used when only a URL is configured
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		KeyPrefix:    DefaultKeyPrefix,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
	}
}
