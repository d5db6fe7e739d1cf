package provider

// ContentType refers to https://github.com/Stremio/stremio-addon-sdk/blob/master/docs/api/responses/content.types.md
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// Stream is a raw stream descriptor as returned by an addon. The engine
// never mutates it; everything derived from it is recomputed on demand.
type Stream struct {
	URL           string         `json:"url,omitempty"`
	YoutubeID     string         `json:"ytId,omitempty"`
	InfoHash      string         `json:"infoHash,omitempty"`
	FileIndex     int            `json:"fileIdx,omitempty"`
	Name          string         `json:"name,omitempty"`
	Title         string         `json:"title,omitempty"`
	Description   string         `json:"description,omitempty"`
	BehaviorHints *BehaviorHints `json:"behaviorHints,omitempty"`
}

type BehaviorHints struct {
	NotWebReady bool   `json:"notWebReady,omitempty"`
	BingeGroup  string `json:"bingeGroup,omitempty"`
	FileName    string `json:"filename,omitempty"`
	VideoSize   uint64 `json:"videoSize,omitempty"`
}

// BingeGroup returns the release-batch tag, or "" when the addon didn't set one.
func (s Stream) BingeGroup() string {
	if s.BehaviorHints == nil {
		return ""
	}
	return s.BehaviorHints.BingeGroup
}

// Descriptor identifies the addon a stream came from. Stable for the
// lifetime of one aggregation session.
type Descriptor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Manifest is the subset of a Stremio addon manifest this service reads.
type Manifest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Logo        string   `json:"logo,omitempty"`
	Types       []string `json:"types"`
	IDPrefixes  []string `json:"idPrefixes,omitempty"`
}

func (m Manifest) Descriptor() Descriptor {
	return Descriptor{ID: m.ID, Name: m.Name, Logo: m.Logo}
}

type GetStreamsResponse struct {
	Streams []Stream `json:"streams"`
}
