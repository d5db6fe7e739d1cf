// Package magnet extracts torrent info hashes from magnet URIs.
package magnet

import (
	"encoding/base32"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/multiformats/go-multihash"
)

// InfoHash returns the info hash carried by a magnet URI, normalized to
// lowercase hex. Both v1 (urn:btih, hex or base32) and v2 (urn:btmh,
// multihash) exact topics are handled. Returns "" when the URI is not a
// magnet link or carries no usable topic.
func InfoHash(uri string) string {
	if !strings.HasPrefix(strings.ToLower(uri), "magnet:") {
		return ""
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}

	for _, xt := range parsed.Query()["xt"] {
		topic := strings.ToLower(strings.TrimSpace(xt))
		switch {
		case strings.HasPrefix(topic, "urn:btih:"):
			if h := decodeBTIH(strings.TrimPrefix(topic, "urn:btih:")); h != "" {
				return h
			}
		case strings.HasPrefix(topic, "urn:btmh:"):
			if h := decodeBTMH(strings.TrimPrefix(topic, "urn:btmh:")); h != "" {
				return h
			}
		}
	}

	return ""
}

func decodeBTIH(encoded string) string {
	switch len(encoded) {
	case 40:
		if _, err := hex.DecodeString(encoded); err == nil {
			return encoded
		}
	case 32:
		raw, err := base32.StdEncoding.DecodeString(strings.ToUpper(encoded))
		if err == nil && len(raw) == 20 {
			return hex.EncodeToString(raw)
		}
	}

	return ""
}

// BitTorrent v2 topics wrap the hash in a multihash envelope.
func decodeBTMH(encoded string) string {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return ""
	}

	decoded, err := multihash.Decode(raw)
	if err != nil {
		return ""
	}

	return hex.EncodeToString(decoded.Digest)
}
