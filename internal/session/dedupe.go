package session

import (
	"regexp"
	"strings"

	"github.com/adrg/strutil/metrics"
)

// Two filenames within this Levenshtein distance are treated as the same
// release, which absorbs minor punctuation and tagging differences
// between addons.
const maxFilenameDistance = 2

var nonWordCharacters = regexp.MustCompile(`[^a-z0-9]+`)

// isDuplicate reports whether a candidate entry is already represented in
// the merged list. An exact info hash match is authoritative; otherwise
// near-identical filenames for the same season and episode count as
// duplicates.
func isDuplicate(merged []FlatEntry, candidate FlatEntry) bool {
	hash := strings.ToLower(candidate.Stream.InfoHash)
	name := normalizedFilename(candidate)

	for _, existing := range merged {
		if hash != "" && strings.ToLower(existing.Stream.InfoHash) == hash {
			return true
		}

		if name == "" {
			continue
		}
		if existing.Parsed.Season != candidate.Parsed.Season ||
			existing.Parsed.Episode != candidate.Parsed.Episode {
			continue
		}

		other := normalizedFilename(existing)
		if other == "" {
			continue
		}
		if filenameDistance(name, other) <= maxFilenameDistance {
			return true
		}
	}

	return false
}

func normalizedFilename(entry FlatEntry) string {
	name := ""
	if entry.Stream.BehaviorHints != nil {
		name = entry.Stream.BehaviorHints.FileName
	}
	if name == "" {
		name = entry.Stream.Title
	}
	if name == "" {
		name = entry.Stream.Name
	}

	name = strings.ToLower(name)
	return strings.Trim(nonWordCharacters.ReplaceAllString(name, " "), " ")
}

func filenameDistance(a, b string) int {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	return lev.Distance(a, b)
}
