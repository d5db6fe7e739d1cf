package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mteij/Zentrio-sub002/internal/provider"
	"github.com/mteij/Zentrio-sub002/internal/session"
)

func fakeProvider(id string, streams []provider.Stream) session.Provider {
	return session.Provider{
		Descriptor: provider.Descriptor{ID: id, Name: id},
		Fetch: func(ctx context.Context, target session.Target) ([]provider.Stream, error) {
			return streams, nil
		},
	}
}

func testApp(providers ...session.Provider) *fiber.App {
	srv := New(
		WithProviders(providers),
		WithFetchTimeout(time.Second),
	)

	app := fiber.New()
	srv.Register(app)
	return app
}

func TestHealthz(t *testing.T) {
	app := testApp(fakeProvider("alpha", nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProvidersEndpoint(t *testing.T) {
	app := testApp(fakeProvider("alpha", nil), fakeProvider("beta", nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/streaming/providers", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Addons []provider.Descriptor `json:"addons"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Addons, 2)
	assert.Equal(t, "alpha", body.Addons[0].ID)
}

func TestBestStreamReturnsWinner(t *testing.T) {
	app := testApp(fakeProvider("alpha", []provider.Stream{
		{InfoHash: "aaaa", Title: "Movie.2023.720p.WEB-DL"},
		{InfoHash: "bbbb", Title: "Movie.2023.1080p.BluRay ⚡ cached"},
	}))

	req := httptest.NewRequest("GET", "/api/streaming/best-stream/movie/tt0111161", nil)
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Stream     provider.Stream `json:"stream"`
		TotalCount int             `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "bbbb", body.Stream.InfoHash)
	assert.Equal(t, 2, body.TotalCount)
}

func TestBestStreamNoResults(t *testing.T) {
	app := testApp(fakeProvider("alpha", nil))

	req := httptest.NewRequest("GET", "/api/streaming/best-stream/movie/tt0111161", nil)
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBestStreamRejectsBadType(t *testing.T) {
	app := testApp(fakeProvider("alpha", nil))

	req := httptest.NewRequest("GET", "/api/streaming/best-stream/channel/tt0111161", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBestStreamRequiresSeasonAndEpisode(t *testing.T) {
	app := testApp(fakeProvider("alpha", nil))

	req := httptest.NewRequest("GET", "/api/streaming/best-stream/series/tt0903747", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/streaming/best-stream/series/tt0903747?season=1&episode=2", nil)
	resp, err = app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
