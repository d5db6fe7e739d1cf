// Package classify derives structured attributes from the free-text fields
// of raw stream descriptors. Classification is pure and total: malformed or
// missing text degrades to zero values, never to an error.
package classify

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cehbz/torrentname"

	"github.com/mteij/Zentrio-sub002/internal/provider"
)

// Attributes is everything the ranking engine knows about one stream.
// Derivable solely from the stream's own text fields; recomputing is
// idempotent and deterministic.
type Attributes struct {
	Resolution    Resolution `json:"resolution,omitempty"`
	SizeBytes     int64      `json:"size,omitempty"`
	SourceType    SourceType `json:"sourceType,omitempty"`
	IsCached      bool       `json:"isCached"`
	HasHDR        bool       `json:"hasHDR,omitempty"`
	HasDV         bool       `json:"hasDV,omitempty"`
	EncodeTags    []string   `json:"encode,omitempty"`
	VisualTags    []string   `json:"visualTags,omitempty"`
	AudioTags     []string   `json:"audioTags,omitempty"`
	AudioChannels []string   `json:"audioChannels,omitempty"`
	Languages     []string   `json:"languages,omitempty"`
	Seeders       int        `json:"seeders,omitempty"`

	// Release identity parsed from the filename-like title, when present.
	Title   string `json:"title,omitempty"`
	Year    int    `json:"year,omitempty"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`
}

// Classify derives attributes from a raw stream descriptor.
func Classify(s provider.Stream) Attributes {
	combined := strings.ToLower(s.Name + " " + s.Title + " " + s.Description)

	attrs := Attributes{
		Resolution:    parseResolution(combined),
		SizeBytes:     parseSize(combined),
		SourceType:    parseSource(combined),
		IsCached:      parseCached(combined, s.Name, s.Title),
		EncodeTags:    collectTags(combined, encodeRules),
		VisualTags:    collectTags(combined, visualRules),
		AudioTags:     collectTags(combined, audioRules),
		AudioChannels: collectTags(combined, channelRules),
		Languages:     parseLanguages(combined),
		Seeders:       parseSeeders(combined),
	}

	for _, tag := range attrs.VisualTags {
		switch tag {
		case "hdr":
			attrs.HasHDR = true
		case "dv":
			attrs.HasDV = true
		}
	}

	release := s.Title
	if release == "" {
		release = s.Name
	}
	if info := torrentname.Parse(release); info != nil {
		attrs.Title = info.Title
		attrs.Year = info.Year
		attrs.Season = info.Season
		attrs.Episode = info.Episode
	}

	return attrs
}

func parseResolution(combined string) Resolution {
	for _, rule := range resolutionRules {
		for _, token := range rule.tokens {
			if strings.Contains(combined, token) {
				return rule.resolution
			}
		}
	}

	return ResolutionUnknown
}

func parseSize(combined string) int64 {
	match := sizePattern.FindStringSubmatch(combined)
	if match == nil {
		return 0
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}

	switch strings.ToUpper(match[2]) {
	case "GB":
		return int64(value * GIBIBYTE)
	case "MB":
		return int64(value * MEBIBYTE)
	}

	return 0
}

func parseSource(combined string) SourceType {
	for _, rule := range sourceRules {
		if rule.pattern.MatchString(combined) {
			return rule.source
		}
	}

	return SourceUnknown
}

// parseCached applies the authority rule: an explicit-uncached marker beats
// any number of cached markers. The bracket badge is only honoured in the
// name/title fields.
func parseCached(combined, name, title string) bool {
	for _, indicator := range uncachedIndicators {
		if strings.Contains(combined, indicator) {
			return false
		}
	}

	for _, indicator := range cachedIndicators {
		if strings.Contains(combined, indicator) {
			return true
		}
	}

	return cachedBracketPattern.MatchString(name) || cachedBracketPattern.MatchString(title)
}

func parseSeeders(combined string) int {
	match := seedersPattern.FindStringSubmatch(combined)
	if match == nil {
		return 0
	}

	seeders, _ := strconv.Atoi(match[1])
	return seeders
}

// collectTags gathers every matching tag ordered by first occurrence in the
// text, de-duplicated by the rule table itself (one tag per rule).
func collectTags(combined string, rules []tagRule) []string {
	type hit struct {
		tag   string
		index int
	}

	var hits []hit
	for _, rule := range rules {
		loc := rule.pattern.FindStringIndex(combined)
		if loc != nil {
			hits = append(hits, hit{tag: rule.tag, index: loc[0]})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].index < hits[j].index
	})

	tags := make([]string, 0, len(hits))
	for _, h := range hits {
		tags = append(tags, h.tag)
	}

	if len(tags) == 0 {
		return nil
	}

	return tags
}

func parseLanguages(combined string) []string {
	type hit struct {
		display string
		index   int
	}

	var hits []hit
	for _, rule := range languageRules {
		loc := rule.pattern.FindStringIndex(combined)
		if loc != nil {
			hits = append(hits, hit{display: rule.display, index: loc[0]})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].index < hits[j].index
	})

	languages := make([]string, 0, len(hits))
	for _, h := range hits {
		languages = append(languages, h.display)
	}

	if len(languages) == 0 {
		return nil
	}

	return languages
}
