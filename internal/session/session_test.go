package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mteij/Zentrio-sub002/internal/provider"
	"github.com/mteij/Zentrio-sub002/internal/rank"
)

func testTarget() Target {
	return Target{Type: provider.ContentTypeMovie, ID: "tt0111161"}
}

func fakeProvider(id string, streams []provider.Stream, err error) Provider {
	return Provider{
		Descriptor: provider.Descriptor{ID: id, Name: id},
		Fetch: func(ctx context.Context, target Target) ([]provider.Stream, error) {
			return streams, err
		},
	}
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()

	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("session did not finish in time")
		}
	}
}

func eventsOfType(events []Event, typ EventType) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestSessionHappyPath(t *testing.T) {
	providers := []Provider{
		fakeProvider("one", []provider.Stream{
			{InfoHash: "aaaa", Title: "Movie.2023.720p.WEB-DL"},
		}, nil),
		fakeProvider("two", nil, errors.New("upstream 500")),
		fakeProvider("three", []provider.Stream{
			{InfoHash: "bbbb", Title: "Movie.2023.2160p.BluRay ⚡ cached"},
			{InfoHash: "cccc", Title: "Movie.2023.480p.CAM"},
		}, nil),
	}

	events := collect(t, Run(context.Background(), testTarget(), providers, Options{
		Config: rank.DefaultConfig(),
	}))

	assert.Len(t, eventsOfType(events, EventAddonStart), 3)
	assert.Len(t, eventsOfType(events, EventAddonResult), 2)

	failures := eventsOfType(events, EventAddonError)
	require.Len(t, failures, 1)
	failure := failures[0].Data.(AddonErrorPayload)
	assert.Equal(t, "two", failure.Addon.ID)
	assert.Equal(t, "upstream 500", failure.Error)

	completes := eventsOfType(events, EventComplete)
	require.Len(t, completes, 1)
	complete := completes[0].Data.(CompletePayload)
	assert.False(t, complete.FromCache)
	assert.Equal(t, 3, complete.TotalCount)
	require.Len(t, complete.AllStreams, 3)

	// The cached 4K release outranks everything.
	assert.Equal(t, "bbbb", complete.AllStreams[0].Stream.InfoHash)

	// Terminal event comes last.
	assert.Equal(t, EventComplete, events[len(events)-1].Type)
}

func TestSessionSnapshotsAreSorted(t *testing.T) {
	providers := []Provider{
		fakeProvider("one", []provider.Stream{
			{InfoHash: "aaaa", Title: "Movie.2023.480p"},
			{InfoHash: "bbbb", Title: "Movie.2023.1080p ⚡ cached"},
			{InfoHash: "cccc", Title: "Movie.2023.720p"},
		}, nil),
	}

	cfg := rank.DefaultConfig()
	events := collect(t, Run(context.Background(), testTarget(), providers, Options{Config: cfg}))

	for _, ev := range eventsOfType(events, EventAddonResult) {
		payload := ev.Data.(AddonResultPayload)
		for i := 1; i < len(payload.AllStreams); i++ {
			prev := rank.Score(payload.AllStreams[i-1].Parsed, cfg)
			cur := rank.Score(payload.AllStreams[i].Parsed, cfg)
			assert.GreaterOrEqual(t, prev, cur)
		}
	}
}

func TestSessionFirstPlayableFiresOnce(t *testing.T) {
	providers := []Provider{
		fakeProvider("one", []provider.Stream{
			{InfoHash: "aaaa", Title: "Movie.2023.1080p ⚡ cached"},
		}, nil),
		fakeProvider("two", []provider.Stream{
			{InfoHash: "bbbb", Title: "Movie.2023.2160p ⚡ cached"},
		}, nil),
	}

	events := collect(t, Run(context.Background(), testTarget(), providers, Options{
		Config: rank.DefaultConfig(),
	}))

	playable := eventsOfType(events, EventFirstPlayable)
	require.Len(t, playable, 1)
	payload := playable[0].Data.(FirstPlayablePayload)
	assert.True(t, payload.Stream.Parsed.IsCached)
}

func TestSessionNoFirstPlayableWhenNothingCached(t *testing.T) {
	providers := []Provider{
		fakeProvider("one", []provider.Stream{
			{InfoHash: "aaaa", Title: "Movie.2023.1080p.WEB-DL"},
		}, nil),
	}

	events := collect(t, Run(context.Background(), testTarget(), providers, Options{
		Config: rank.DefaultConfig(),
	}))

	assert.Empty(t, eventsOfType(events, EventFirstPlayable))
}

func TestSessionDeduplicatesByInfoHash(t *testing.T) {
	providers := []Provider{
		fakeProvider("one", []provider.Stream{
			{InfoHash: "aaaa", Title: "Movie.2023.1080p.WEB-DL"},
		}, nil),
		fakeProvider("two", []provider.Stream{
			{InfoHash: "AAAA", Title: "Movie.2023.1080p.WEB-DL.x264"},
		}, nil),
	}

	events := collect(t, Run(context.Background(), testTarget(), providers, Options{
		Config: rank.DefaultConfig(),
	}))

	complete := eventsOfType(events, EventComplete)[0].Data.(CompletePayload)
	assert.Equal(t, 1, complete.TotalCount)
}

func TestSessionCacheRoundTrip(t *testing.T) {
	cache := NewCache(1024*1024, time.Minute)
	providers := []Provider{
		fakeProvider("one", []provider.Stream{
			{InfoHash: "aaaa", Title: "Movie.2023.1080p ⚡ cached"},
		}, nil),
	}
	opts := Options{Config: rank.DefaultConfig(), Cache: cache}

	first := collect(t, Run(context.Background(), testTarget(), providers, opts))
	firstStatus := eventsOfType(first, EventCacheStatus)[0].Data.(CacheStatusPayload)
	assert.False(t, firstStatus.FromCache)

	second := collect(t, Run(context.Background(), testTarget(), providers, opts))
	secondStatus := eventsOfType(second, EventCacheStatus)[0].Data.(CacheStatusPayload)
	assert.True(t, secondStatus.FromCache)

	// Replay skips the providers entirely.
	assert.Empty(t, eventsOfType(second, EventAddonStart))
	complete := eventsOfType(second, EventComplete)[0].Data.(CompletePayload)
	assert.True(t, complete.FromCache)
	assert.Equal(t, 1, complete.TotalCount)

	// Refresh forces a refetch.
	opts.Refresh = true
	third := collect(t, Run(context.Background(), testTarget(), providers, opts))
	assert.Len(t, eventsOfType(third, EventAddonStart), 1)
}

func TestSessionStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	blocked := Provider{
		Descriptor: provider.Descriptor{ID: "slow", Name: "slow"},
		Fetch: func(ctx context.Context, target Target) ([]provider.Stream, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	events := Run(ctx, testTarget(), []Provider{blocked}, Options{Config: rank.DefaultConfig()})
	cancel()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("session did not stop after cancellation")
		}
	}
}
