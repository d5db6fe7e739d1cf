package session

import (
	"fmt"

	"github.com/mteij/Zentrio-sub002/internal/provider"
)

// Target identifies the content an aggregation session is fetching
// streams for. Season and Episode are zero for movies.
type Target struct {
	Type    provider.ContentType
	ID      string
	Season  int
	Episode int
}

// VideoID renders the target in the id:season:episode form addons expect
// for series, or the bare id for everything else.
func (t Target) VideoID() string {
	if t.Type == provider.ContentTypeSeries && t.Season > 0 && t.Episode > 0 {
		return fmt.Sprintf("%s:%d:%d", t.ID, t.Season, t.Episode)
	}
	return t.ID
}

func (t Target) cacheKey() []byte {
	return []byte(fmt.Sprintf("%s|%s|%d|%d", t.Type, t.ID, t.Season, t.Episode))
}
