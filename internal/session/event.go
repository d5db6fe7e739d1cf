package session

import (
	"github.com/mteij/Zentrio-sub002/internal/classify"
	"github.com/mteij/Zentrio-sub002/internal/provider"
)

// EventType names a progressive disclosure event.
type EventType string

const (
	EventCacheStatus   EventType = "cache-status"
	EventAddonStart    EventType = "addon-start"
	EventFirstPlayable EventType = "first-playable"
	EventAddonResult   EventType = "addon-result"
	EventAddonError    EventType = "addon-error"
	EventComplete      EventType = "complete"
)

// Event is one message on the session channel. Data holds the typed
// payload for the event type.
type Event struct {
	Type EventType
	Data any
}

// FlatEntry is a stream annotated with its source addon and classified
// attributes, the unit every snapshot payload is built from.
type FlatEntry struct {
	Stream provider.Stream     `json:"stream"`
	Addon  provider.Descriptor `json:"addon"`
	Parsed classify.Attributes `json:"parsed"`
}

type CacheStatusPayload struct {
	FromCache  bool  `json:"fromCache"`
	CacheAgeMs int64 `json:"cacheAgeMs"`
}

type AddonStartPayload struct {
	Addon provider.Descriptor `json:"addon"`
}

// AddonResultPayload carries the full re-sorted merged list so consumers
// can replace their view wholesale instead of patching it.
type AddonResultPayload struct {
	Addon      provider.Descriptor `json:"addon"`
	Count      int                 `json:"count"`
	AllStreams []FlatEntry         `json:"allStreams"`
}

type AddonErrorPayload struct {
	Addon provider.Descriptor `json:"addon"`
	Error string              `json:"error"`
}

type FirstPlayablePayload struct {
	Stream     FlatEntry `json:"stream"`
	TotalCount int       `json:"totalCount"`
}

type CompletePayload struct {
	AllStreams []FlatEntry `json:"allStreams"`
	TotalCount int         `json:"totalCount"`
	FromCache  bool        `json:"fromCache"`
}
