// Package config holds the small set of tunables the splitter and the
// build cache read, using the same struct-plus-defaults-plus-env-loader
// shape as the database configuration below.
package config

import (
	"fmt"
	"os"
)

// Unbounded marks ParallelRequestLimit as having no cap.
const Unbounded = 0

// SplitConfig holds the two tuning parameters exposed to callers of the
// splitting algorithm.
type SplitConfig struct {
	// MinSharedChunkSize is the minimum total size (sum of member module
	// sizes) a shared chunk must have to survive the min-size dissolution
	// pass. Default 10.
	MinSharedChunkSize int

	// ParallelRequestLimit bounds how many chunks a single chunk group may
	// load directly after the parallel-limit enforcement pass. Unbounded
	// (0) means no limit.
	ParallelRequestLimit int
}

// DefaultSplitConfig returns the tuning defaults.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		MinSharedChunkSize:   10,
		ParallelRequestLimit: Unbounded,
	}
}

// LoadSplitConfigFromEnv loads SplitConfig, applying SPLITGRAPH_MIN_CHUNK_SIZE
// and SPLITGRAPH_PARALLEL_LIMIT overrides on top of the defaults.
func LoadSplitConfigFromEnv() SplitConfig {
	cfg := DefaultSplitConfig()

	if v := os.Getenv("SPLITGRAPH_MIN_CHUNK_SIZE"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n >= 0 {
			cfg.MinSharedChunkSize = n
		}
	}

	if v := os.Getenv("SPLITGRAPH_PARALLEL_LIMIT"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n >= 0 {
			cfg.ParallelRequestLimit = n
		}
	}

	return cfg
}
