package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2/log"
)

const defaultFetchTimeout = 30 * time.Second

// Client talks to one Stremio-compatible addon.
type Client struct {
	client  *resty.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{
		client:  client,
		baseURL: baseURL,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetManifest resolves the addon's identity. Called once at startup.
func (c *Client) GetManifest(ctx context.Context) (*Manifest, error) {
	result := &Manifest{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(result).
		Get("/manifest.json")

	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("manifest request to %s failed with status %d", c.baseURL, resp.StatusCode())
	}

	if result.ID == "" {
		return nil, fmt.Errorf("addon at %s returned a manifest without an id", c.baseURL)
	}

	return result, nil
}

// GetStreams fetches the raw stream descriptors for one playback target.
// videoID is "tt123" for movies and "tt123:1:5" for series episodes.
func (c *Client) GetStreams(ctx context.Context, contentType ContentType, videoID string) ([]Stream, error) {
	result := &GetStreamsResponse{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(result).
		Get("/stream/" + string(contentType) + "/" + url.PathEscape(videoID) + ".json")

	if err != nil {
		log.Errorf("Failed to fetch streams for %s from %s: %v", videoID, c.baseURL, err)
		return nil, err
	}

	if resp.IsError() {
		log.Errorf("Failed to fetch streams for %s from %s: status %d", videoID, c.baseURL, resp.StatusCode())
		return nil, fmt.Errorf("stream request to %s failed with status %d", c.baseURL, resp.StatusCode())
	}

	return result.Streams, nil
}
