package classify

import "regexp"

// The matching vocabulary lives in data tables so new provider naming
// conventions can be added without touching the matching logic.

type Resolution string

const (
	Resolution4K      Resolution = "4K"
	Resolution1080p   Resolution = "1080p"
	Resolution720p    Resolution = "720p"
	Resolution480p    Resolution = "480p"
	ResolutionUnknown Resolution = ""
)

type SourceType string

const (
	SourceBluRay   SourceType = "bluray"
	SourceWeb      SourceType = "web"
	SourceHDTV     SourceType = "hdtv"
	SourceTelesync SourceType = "telesync"
	SourceCam      SourceType = "cam"
	SourceUnknown  SourceType = "unknown"
)

type tagRule struct {
	tag     string
	pattern *regexp.Regexp
}

var (
	// Explicit-uncached markers are authoritative: any hit overrides every
	// cached indicator, since addons only flag a download when one is needed.
	uncachedIndicators = []string{"⬇️", "⬇", "⏳", "uncached", "download"}

	cachedIndicators = []string{"cached", "⚡", "✓", "instant", "your media"}

	// Debrid shorthand like [RD+] or [TB+], only trusted in name/title where
	// addons put their service badges. Description prose is too noisy.
	cachedBracketPattern = regexp.MustCompile(`(?i)\[[a-z]{1,4}\+\]`)

	sizePattern    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(gb|mb)`)
	seedersPattern = regexp.MustCompile(`(?i)(?:👤|\bseeders?:?|\bs:)\s*(\d+)`)

	// Checked in priority order, higher resolutions first.
	resolutionRules = []struct {
		resolution Resolution
		tokens     []string
	}{
		{Resolution4K, []string{"4k", "2160p"}},
		{Resolution1080p, []string{"1080p"}},
		{Resolution720p, []string{"720p"}},
		{Resolution480p, []string{"480p"}},
	}

	// First matching rule wins.
	sourceRules = []struct {
		source  SourceType
		pattern *regexp.Regexp
	}{
		{SourceBluRay, regexp.MustCompile(`(?i)\bblu-?ray\b|\bbd-?rip\b|\bbr-?rip\b|\b(?:bd|br)?remux\b`)},
		{SourceWeb, regexp.MustCompile(`(?i)\bweb-?dl\b|\bweb-?rip\b|\bweb\b`)},
		{SourceHDTV, regexp.MustCompile(`(?i)\bhdtv\b|\b(?:hd-?)?tv-?rip\b`)},
		{SourceTelesync, regexp.MustCompile(`(?i)\bt(?:ele)?s(?:ync)?\b|\bts-?rip\b`)},
		{SourceCam, regexp.MustCompile(`(?i)\b(?:hd-?)?cam(?:rip)?\b`)},
	}

	encodeRules = []tagRule{
		{"hevc", regexp.MustCompile(`(?i)\bhevc\b|\b[xh][-. ]?265\b`)},
		{"avc", regexp.MustCompile(`(?i)\bavc\b|\b[xh][-. ]?264\b`)},
		{"av1", regexp.MustCompile(`(?i)\bav1\b`)},
	}

	visualRules = []tagRule{
		{"hdr", regexp.MustCompile(`(?i)\bhdr(?:10(?:\+)?)?\b`)},
		{"dv", regexp.MustCompile(`(?i)\bdv\b|\bdolby[\s.]?vision\b`)},
		{"10bit", regexp.MustCompile(`(?i)\b10-?bit\b`)},
	}

	audioRules = []tagRule{
		{"atmos", regexp.MustCompile(`(?i)\batmos\b`)},
		{"dts", regexp.MustCompile(`(?i)\bdts(?:-?hd)?\b`)},
		{"truehd", regexp.MustCompile(`(?i)\btruehd\b`)},
		{"eac3", regexp.MustCompile(`(?i)\bddp\b|\beac-?3\b|\bdd\+`)},
		{"ac3", regexp.MustCompile(`(?i)\bac-?3\b|\bdd[\s.]?5\.?1\b`)},
		{"aac", regexp.MustCompile(`(?i)\baac\b`)},
		{"mp3", regexp.MustCompile(`(?i)\bmp3\b`)},
		{"opus", regexp.MustCompile(`(?i)\bopus\b`)},
		{"flac", regexp.MustCompile(`(?i)\bflac\b`)},
		{"multi", regexp.MustCompile(`(?i)\bmulti\b|\bdual[- ]audio\b`)},
	}

	channelRules = []tagRule{
		{"7.1", regexp.MustCompile(`\b7\.1\b`)},
		{"5.1", regexp.MustCompile(`\b5\.1\b`)},
		{"2.0", regexp.MustCompile(`\b2\.0\b`)},
	}

	languageRules = []struct {
		display string
		pattern *regexp.Regexp
	}{
		{"English", regexp.MustCompile(`(?i)\benglish\b|\beng\b`)},
		{"French", regexp.MustCompile(`(?i)\bfrench\b|\bvff\b|\bvostfr\b`)},
		{"German", regexp.MustCompile(`(?i)\bgerman\b|\bdeutsch\b`)},
		{"Spanish", regexp.MustCompile(`(?i)\bspanish\b|\bespanol\b|\blatino\b`)},
		{"Italian", regexp.MustCompile(`(?i)\bitalian\b|\bita\b`)},
		{"Portuguese", regexp.MustCompile(`(?i)\bportuguese\b|\bdublado\b`)},
		{"Russian", regexp.MustCompile(`(?i)\brussian\b|\brus\b`)},
		{"Hindi", regexp.MustCompile(`(?i)\bhindi\b`)},
		{"Japanese", regexp.MustCompile(`(?i)\bjapanese\b|\bjpn\b`)},
		{"Korean", regexp.MustCompile(`(?i)\bkorean\b|\bkor\b`)},
	}
)
