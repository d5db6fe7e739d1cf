// Package session runs one progressive stream aggregation: providers are
// fanned out concurrently and every partial result is pushed to the
// consumer as a typed event.
package session

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/mteij/Zentrio-sub002/internal/classify"
	"github.com/mteij/Zentrio-sub002/internal/metrics"
	"github.com/mteij/Zentrio-sub002/internal/provider"
	"github.com/mteij/Zentrio-sub002/internal/rank"
)

const defaultFetchTimeout = 30 * time.Second

// Provider is one enabled stream source. Fetch must honor its context
// and is called from a dedicated goroutine per session.
type Provider struct {
	Descriptor provider.Descriptor
	Fetch      func(ctx context.Context, target Target) ([]provider.Stream, error)
}

// Options configures a single session run.
type Options struct {
	Config       rank.Config
	FetchTimeout time.Duration
	Cache        *Cache
	Refresh      bool
	Metrics      *metrics.Metrics
}

// Run starts an aggregation session and returns its event channel. The
// channel is closed after the complete event, or as soon as ctx is
// cancelled. Only the session goroutine ever touches the merged list, so
// no locking is needed anywhere in the hot path.
func Run(ctx context.Context, target Target, providers []Provider, opts Options) <-chan Event {
	events := make(chan Event, len(providers)*2+4)
	go run(ctx, target, providers, opts, events)
	return events
}

type fetchResult struct {
	index   int
	streams []provider.Stream
	err     error
}

func run(ctx context.Context, target Target, providers []Provider, opts Options, events chan<- Event) {
	defer close(events)

	cfg := opts.Config.Normalized()
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	opts.Metrics.IncSessions()

	emit := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if opts.Cache != nil && !opts.Refresh {
		if cached, age, ok := opts.Cache.Get(target); ok {
			log.Debugf("Serving %d cached streams for %s", len(cached), target.VideoID())
			if !emit(Event{EventCacheStatus, CacheStatusPayload{FromCache: true, CacheAgeMs: age.Milliseconds()}}) {
				return
			}
			if emit(Event{EventComplete, CompletePayload{AllStreams: cached, TotalCount: len(cached), FromCache: true}}) {
				opts.Metrics.IncSessionsCompleted()
			}
			return
		}
	}

	if !emit(Event{EventCacheStatus, CacheStatusPayload{}}) {
		return
	}

	results := make(chan fetchResult, len(providers))
	for i, p := range providers {
		if !emit(Event{EventAddonStart, AddonStartPayload{Addon: p.Descriptor}}) {
			return
		}

		go func(index int, p Provider) {
			start := time.Now()
			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			streams, err := p.Fetch(fetchCtx, target)
			status := "ok"
			if err != nil {
				status = "error"
			}
			opts.Metrics.ObserveProviderFetch(status, time.Since(start))

			select {
			case results <- fetchResult{index: index, streams: streams, err: err}:
			case <-ctx.Done():
			}
		}(i, p)
	}

	// Arrival order, which stable sorting preserves among equal scores.
	merged := make([]FlatEntry, 0, 64)
	firstPlayableSent := false

	for pending := len(providers); pending > 0; pending-- {
		var res fetchResult
		select {
		case <-ctx.Done():
			return
		case res = <-results:
		}

		p := providers[res.index]
		if res.err != nil {
			log.Warnf("Addon %s failed for %s: %v", p.Descriptor.Name, target.VideoID(), res.err)
			if !emit(Event{EventAddonError, AddonErrorPayload{Addon: p.Descriptor, Error: res.err.Error()}}) {
				return
			}
			continue
		}

		for _, s := range res.streams {
			entry := FlatEntry{Stream: s, Addon: p.Descriptor, Parsed: classify.Classify(s)}
			if isDuplicate(merged, entry) {
				continue
			}
			merged = append(merged, entry)
		}
		opts.Metrics.AddStreamsMerged(len(res.streams))

		snapshot := sortedSnapshot(merged, cfg)

		if !firstPlayableSent {
			if best, ok := firstPlayable(snapshot, cfg); ok {
				firstPlayableSent = true
				if !emit(Event{EventFirstPlayable, FirstPlayablePayload{Stream: best, TotalCount: len(snapshot)}}) {
					return
				}
			}
		}

		if !emit(Event{EventAddonResult, AddonResultPayload{Addon: p.Descriptor, Count: len(res.streams), AllStreams: snapshot}}) {
			return
		}
	}

	final := sortedSnapshot(merged, cfg)
	if opts.Cache != nil {
		opts.Cache.Set(target, final)
	}

	log.Infof("Aggregated %d streams for %s", len(final), target.VideoID())
	if emit(Event{EventComplete, CompletePayload{AllStreams: final, TotalCount: len(final)}}) {
		opts.Metrics.IncSessionsCompleted()
	}
}

// sortedSnapshot copies the merged list and stable-sorts it by descending
// score. The merged list itself stays in arrival order so ties keep
// resolving the same way as more results land.
func sortedSnapshot(merged []FlatEntry, cfg rank.Config) []FlatEntry {
	snapshot := make([]FlatEntry, len(merged))
	copy(snapshot, merged)

	sort.SliceStable(snapshot, func(i, j int) bool {
		return rank.Score(snapshot[i].Parsed, cfg) > rank.Score(snapshot[j].Parsed, cfg)
	})

	return snapshot
}

// firstPlayable returns the earliest cached entry meeting the resolution
// floor, the trigger for the one-shot first-playable event.
func firstPlayable(sorted []FlatEntry, cfg rank.Config) (FlatEntry, bool) {
	for _, entry := range sorted {
		if entry.Parsed.IsCached && rank.IsAcceptable(entry.Parsed, cfg) {
			return entry, true
		}
	}
	return FlatEntry{}, false
}
