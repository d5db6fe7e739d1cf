package rank

import (
	"sort"

	"github.com/samber/lo"

	"github.com/mteij/Zentrio-sub002/internal/classify"
	"github.com/mteij/Zentrio-sub002/internal/provider"
)

// Entry pairs a raw stream with the addon that produced it.
type Entry struct {
	Stream provider.Stream     `json:"stream"`
	Addon  provider.Descriptor `json:"addon"`
}

// SelectBest picks the single winning stream for auto-play.
//
// When preferredPackID is set and at least one entry belongs to that pack,
// selection is restricted to those entries: a user binging a series gets
// the next episode from the release batch they were already watching, even
// when a higher-scored stream exists elsewhere. Otherwise, or when the
// restricted selection comes up empty, normal quality ranking applies over
// the whole set.
func SelectBest(entries []Entry, cfg Config, preferredPackID string) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}

	if preferredPackID != "" {
		packMatches := lo.Filter(entries, func(e Entry, _ int) bool {
			return PackID(e.Stream) == preferredPackID
		})

		if len(packMatches) > 0 {
			if best, ok := selectByScore(packMatches, cfg); ok {
				return best, true
			}
		}
	}

	return selectByScore(entries, cfg)
}

func selectByScore(entries []Entry, cfg Config) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}

	acceptable := lo.Filter(entries, func(e Entry, _ int) bool {
		return IsAcceptable(classify.Classify(e.Stream), cfg)
	})

	// Never return nothing just because the resolution floor filtered
	// everything out; something beats nothing.
	candidates := entries
	if len(acceptable) > 0 {
		candidates = acceptable
	}

	scores := make([]int, len(candidates))
	order := make([]int, len(candidates))
	for i, e := range candidates {
		scores[i] = Score(classify.Classify(e.Stream), cfg)
		order[i] = i
	}

	// Stable sort so arrival order is the final tiebreak.
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	return candidates[order[0]], true
}
