// Package consumer tracks the client-side view of an aggregation
// session: per-addon status, the merged stream list, and the one-shot
// auto-play decision.
package consumer

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"

	"github.com/mteij/Zentrio-sub002/internal/classify"
	"github.com/mteij/Zentrio-sub002/internal/rank"
	"github.com/mteij/Zentrio-sub002/internal/session"
)

// AddonStatus is the lifecycle state of one addon within a session.
type AddonStatus string

const (
	StatusIdle    AddonStatus = "idle"
	StatusLoading AddonStatus = "loading"
	StatusDone    AddonStatus = "done"
	StatusError   AddonStatus = "error"
)

// AddonState is the visible loading state for one addon.
type AddonState struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Logo        string      `json:"logo,omitempty"`
	Status      AddonStatus `json:"status"`
	StreamCount int         `json:"streamCount"`
	Error       string      `json:"error,omitempty"`
}

// CacheStatus mirrors the session's cache-status event.
type CacheStatus struct {
	FromCache  bool  `json:"fromCache"`
	CacheAgeMs int64 `json:"cacheAgeMs"`
}

var (
	ErrNoStreams     = errors.New("no playable stream found")
	ErrChannelClosed = errors.New("stream channel closed before completion")
)

// Consumer applies session events to a mutex-guarded view that request
// handlers can read concurrently while Run is still draining the channel.
type Consumer struct {
	mu sync.RWMutex

	streams       []session.FlatEntry
	statuses      map[string]AddonState
	order         []string
	selectedAddon string
	loading       bool
	complete      bool
	totalCount    int
	cacheStatus   CacheStatus

	autoEnabled     bool
	autoCfg         rank.Config
	preferredPackID string
	autoDone        bool
	autoFound       bool
	autoResult      rank.Entry
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithAutoPlay arms one-shot winner selection. The preferred pack id may
// be empty when there is no previous episode to stay consistent with.
func WithAutoPlay(cfg rank.Config, preferredPackID string) Option {
	return func(c *Consumer) {
		c.autoEnabled = true
		c.autoCfg = cfg.Normalized()
		c.preferredPackID = preferredPackID
	}
}

func New(opts ...Option) *Consumer {
	c := &Consumer{
		statuses: make(map[string]AddonState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run drains the event channel until the session completes, an armed
// auto-play pick fires early, or ctx is cancelled. A channel that closes
// without a complete event is reported as an error.
func (c *Consumer) Run(ctx context.Context, events <-chan session.Event) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.loading = false
			c.mu.Unlock()
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				c.mu.Lock()
				done := c.complete
				c.loading = false
				c.mu.Unlock()
				if done {
					return nil
				}
				return ErrChannelClosed
			}

			if stop := c.apply(ev); stop {
				return nil
			}
		}
	}
}

// apply folds one event into the view. Returns true when Run should stop
// listening.
func (c *Consumer) apply(ev session.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch data := ev.Data.(type) {
	case session.CacheStatusPayload:
		c.cacheStatus = CacheStatus{FromCache: data.FromCache, CacheAgeMs: data.CacheAgeMs}

	case session.AddonStartPayload:
		if _, seen := c.statuses[data.Addon.ID]; !seen {
			c.order = append(c.order, data.Addon.ID)
		}
		c.statuses[data.Addon.ID] = AddonState{
			ID:     data.Addon.ID,
			Name:   data.Addon.Name,
			Logo:   data.Addon.Logo,
			Status: StatusLoading,
		}

	case session.FirstPlayablePayload:
		// A head start for the UI before the first full snapshot lands.
		if len(c.streams) == 0 {
			c.streams = []session.FlatEntry{data.Stream}
			c.totalCount = data.TotalCount
		}

	case session.AddonResultPayload:
		state := c.statuses[data.Addon.ID]
		state.ID = data.Addon.ID
		state.Name = data.Addon.Name
		state.Logo = data.Addon.Logo
		state.Status = StatusDone
		state.StreamCount = data.Count
		c.statuses[data.Addon.ID] = state

		c.streams = data.AllStreams
		c.totalCount = len(data.AllStreams)

		return c.tryAutoPlayLocked(false)

	case session.AddonErrorPayload:
		state := c.statuses[data.Addon.ID]
		state.ID = data.Addon.ID
		state.Name = data.Addon.Name
		state.Logo = data.Addon.Logo
		state.Status = StatusError
		state.Error = data.Error
		c.statuses[data.Addon.ID] = state

	case session.CompletePayload:
		c.streams = data.AllStreams
		c.totalCount = data.TotalCount
		if data.FromCache {
			c.cacheStatus.FromCache = true
		}
		c.loading = false
		c.complete = true

		c.tryAutoPlayLocked(true)
		return true
	}

	return false
}

// tryAutoPlayLocked runs the one-shot selection. Before completion only a
// cached winner stops the session early; an uncached pick might still be
// beaten by a cached stream from a slower addon.
func (c *Consumer) tryAutoPlayLocked(final bool) bool {
	if !c.autoEnabled || c.autoDone || len(c.streams) == 0 {
		return false
	}

	entries := lo.Map(c.streams, func(e session.FlatEntry, _ int) rank.Entry {
		return rank.Entry{Stream: e.Stream, Addon: e.Addon}
	})

	best, ok := rank.SelectBest(entries, c.autoCfg, c.preferredPackID)
	if !ok {
		return false
	}

	if !final && !classify.Classify(best.Stream).IsCached {
		return false
	}

	c.autoDone = true
	c.autoFound = true
	c.autoResult = best
	return !final
}

// Streams returns the current merged list, filtered to the selected addon
// when one is set.
func (c *Consumer) Streams() []session.FlatEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.selectedAddon == "" {
		out := make([]session.FlatEntry, len(c.streams))
		copy(out, c.streams)
		return out
	}

	return lo.Filter(c.streams, func(e session.FlatEntry, _ int) bool {
		return e.Addon.ID == c.selectedAddon
	})
}

// Entries returns the current list in selector form.
func (c *Consumer) Entries() []rank.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return lo.Map(c.streams, func(e session.FlatEntry, _ int) rank.Entry {
		return rank.Entry{Stream: e.Stream, Addon: e.Addon}
	})
}

// SetSelectedAddon narrows Streams to one addon; empty clears the filter.
func (c *Consumer) SetSelectedAddon(id string) {
	c.mu.Lock()
	c.selectedAddon = id
	c.mu.Unlock()
}

// AddonStates returns per-addon loading states in session start order.
func (c *Consumer) AddonStates() []AddonState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]AddonState, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.statuses[id])
	}
	return out
}

func (c *Consumer) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Consumer) IsComplete() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.complete
}

func (c *Consumer) TotalCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalCount
}

func (c *Consumer) CacheStatus() CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cacheStatus
}

// AutoPlayResult returns the selected winner once the one-shot decision
// has fired.
func (c *Consumer) AutoPlayResult() (rank.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.autoResult, c.autoFound
}

// AutoPlay is the convenience path for server-side selection: it consumes
// the session until a winner is known and returns it.
func AutoPlay(ctx context.Context, events <-chan session.Event, cfg rank.Config, preferredPackID string) (rank.Entry, error) {
	c := New(WithAutoPlay(cfg, preferredPackID))
	if err := c.Run(ctx, events); err != nil {
		return rank.Entry{}, err
	}

	if entry, ok := c.AutoPlayResult(); ok {
		return entry, nil
	}
	return rank.Entry{}, ErrNoStreams
}
