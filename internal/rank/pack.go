package rank

import (
	"github.com/mteij/Zentrio-sub002/internal/magnet"
	"github.com/mteij/Zentrio-sub002/internal/provider"
)

// PackID identifies the release batch a stream belongs to. The bingeGroup
// hint is preferred since addons set it specifically for episode
// continuity; the torrent info hash is the fallback, taken from the
// descriptor itself or dug out of a magnet URL. Returns "" when the stream
// carries no pack identity.
func PackID(s provider.Stream) string {
	if group := s.BingeGroup(); group != "" {
		return group
	}

	if s.InfoHash != "" {
		return s.InfoHash
	}

	return magnet.InfoHash(s.URL)
}

// SamePack reports whether two streams belong to the same release batch.
// Streams without a pack identity never match anything.
func SamePack(a, b provider.Stream) bool {
	packA := PackID(a)
	return packA != "" && packA == PackID(b)
}
