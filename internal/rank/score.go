package rank

import (
	"github.com/mteij/Zentrio-sub002/internal/classify"
)

// Cache status dominates every other factor: a cached stream starts
// near-instantly while an uncached one needs a full download first.
const (
	cachedBonus      = 1000
	resolutionWeight = 100
	visualBonus      = 10
)

var resolutionPriority = map[classify.Resolution]int{
	classify.Resolution4K:    4,
	classify.Resolution1080p: 3,
	classify.Resolution720p:  2,
	classify.Resolution480p:  1,
}

// Priority returns the rank of a resolution, 0 for unknown.
func Priority(resolution classify.Resolution) int {
	return resolutionPriority[resolution]
}

// Score computes the desirability of a stream from its classified
// attributes. Size and seeders are informational only and deliberately do
// not contribute.
func Score(attrs classify.Attributes, cfg Config) int {
	score := 0

	if cfg.PreferCached && attrs.IsCached {
		score += cachedBonus
	}

	score += Priority(attrs.Resolution) * resolutionWeight

	if attrs.HasHDR {
		score += visualBonus
	}
	if attrs.HasDV {
		score += visualBonus
	}

	return score
}

// IsAcceptable reports whether a stream meets the configured resolution
// floor. Unknown resolution is always acceptable: there is not enough
// information to reject it.
func IsAcceptable(attrs classify.Attributes, cfg Config) bool {
	if attrs.Resolution == classify.ResolutionUnknown {
		return true
	}

	return Priority(attrs.Resolution) >= Priority(cfg.MinResolution)
}
