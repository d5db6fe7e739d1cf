package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/mteij/Zentrio-sub002/internal/provider"
	"github.com/mteij/Zentrio-sub002/internal/session"
)

// BuildProviders resolves the manifest of every configured addon URL and
// returns a fetcher per addon that answered. Addons that fail to resolve
// are skipped so one bad URL cannot keep the server from starting.
func BuildProviders(ctx context.Context, urls []string, timeout time.Duration) []session.Provider {
	providers := make([]session.Provider, 0, len(urls))

	for _, u := range urls {
		client := provider.NewClient(u, timeout)

		manifest, err := client.GetManifest(ctx)
		if err != nil {
			log.Warnf("Skipping addon %s: %v", u, err)
			continue
		}

		descriptor := manifest.Descriptor()
		log.Infof("Registered addon %s (%s)", descriptor.Name, descriptor.ID)

		providers = append(providers, session.Provider{
			Descriptor: descriptor,
			Fetch: func(ctx context.Context, target session.Target) ([]provider.Stream, error) {
				return client.GetStreams(ctx, target.Type, target.VideoID())
			},
		})
	}

	return providers
}
