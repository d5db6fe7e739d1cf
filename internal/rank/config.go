// Package rank scores classified streams and picks the auto-play winner.
package rank

import (
	"time"

	"github.com/mteij/Zentrio-sub002/internal/classify"
)

const (
	minMaxWait = 5 * time.Second
	maxMaxWait = 30 * time.Second
)

// Config controls scoring and auto-play selection for one session.
// Immutable once the session starts.
type Config struct {
	Enabled       bool
	MaxWait       time.Duration
	PreferCached  bool
	MinResolution classify.Resolution
}

func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		MaxWait:       10 * time.Second,
		PreferCached:  true,
		MinResolution: classify.Resolution720p,
	}
}

// Normalized clamps MaxWait into its supported range.
func (c Config) Normalized() Config {
	if c.MaxWait < minMaxWait {
		c.MaxWait = minMaxWait
	}
	if c.MaxWait > maxMaxWait {
		c.MaxWait = maxMaxWait
	}
	return c
}
