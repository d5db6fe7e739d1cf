package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mteij/Zentrio-sub002/internal/classify"
	"github.com/mteij/Zentrio-sub002/internal/consumer"
	"github.com/mteij/Zentrio-sub002/internal/provider"
	"github.com/mteij/Zentrio-sub002/internal/rank"
	"github.com/mteij/Zentrio-sub002/internal/session"
)

// handleStreamEvents streams the aggregation session to the client as
// server-sent events. The session is cancelled as soon as the client
// disconnects.
func (s *Server) handleStreamEvents(c *fiber.Ctx) error {
	target, err := targetFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	refresh := c.QueryBool("refresh")
	cfg := s.configFromRequest(c)
	opts := s.sessionOptions(refresh, cfg)
	providers := s.providers

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := session.Run(ctx, target, providers, opts)
		for ev := range events {
			if err := writeEvent(w, ev); err != nil {
				log.Debugf("Client disconnected from %s stream: %v", target.VideoID(), err)
				return
			}
		}
	})

	return nil
}

// handleBestStream runs the whole selection server-side and returns just
// the winner, within the configured wait budget.
func (s *Server) handleBestStream(c *fiber.Ctx) error {
	target, err := targetFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	refresh := c.QueryBool("refresh")
	packID := c.Query("packId")
	cfg := s.configFromRequest(c)
	opts := s.sessionOptions(refresh, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Normalized().MaxWait)
	defer cancel()

	events := session.Run(ctx, target, s.providers, opts)
	cons := consumer.New(consumer.WithAutoPlay(cfg, packID))
	runErr := cons.Run(ctx, events)

	if entry, ok := cons.AutoPlayResult(); ok {
		return c.JSON(bestStreamResponse(entry, cons.TotalCount()))
	}

	// The wait budget ran out; settle for the best of what arrived.
	if entries := cons.Entries(); len(entries) > 0 {
		if best, ok := rank.SelectBest(entries, cfg, packID); ok {
			return c.JSON(bestStreamResponse(best, cons.TotalCount()))
		}
	}

	if runErr != nil && !errors.Is(runErr, context.DeadlineExceeded) {
		log.Errorf("Best stream lookup failed for %s: %v", target.VideoID(), runErr)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to load streams"})
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no playable stream found"})
}

func bestStreamResponse(entry rank.Entry, totalCount int) fiber.Map {
	return fiber.Map{
		"stream":     entry.Stream,
		"addon":      entry.Addon,
		"parsed":     classify.Classify(entry.Stream),
		"packId":     rank.PackID(entry.Stream),
		"totalCount": totalCount,
	}
}

func targetFromRequest(c *fiber.Ctx) (session.Target, error) {
	contentType := provider.ContentType(c.Params("type"))
	if contentType != provider.ContentTypeMovie && contentType != provider.ContentTypeSeries {
		return session.Target{}, fmt.Errorf("unsupported content type %q", c.Params("type"))
	}

	id := c.Params("id")
	if id == "" {
		return session.Target{}, errors.New("missing content id")
	}

	target := session.Target{
		Type:    contentType,
		ID:      id,
		Season:  c.QueryInt("season"),
		Episode: c.QueryInt("episode"),
	}

	if contentType == provider.ContentTypeSeries && (target.Season <= 0 || target.Episode <= 0) {
		return session.Target{}, errors.New("series requests need season and episode")
	}

	return target, nil
}

// configFromRequest overlays query parameters on the server defaults so a
// client can tune selection per request.
func (s *Server) configFromRequest(c *fiber.Ctx) rank.Config {
	cfg := s.config

	if v := c.Query("preferCached"); v != "" {
		cfg.PreferCached = c.QueryBool("preferCached")
	}
	if v := c.Query("minResolution"); v != "" {
		cfg.MinResolution = classify.Resolution(v)
	}
	if ms := c.QueryInt("maxWaitMs"); ms > 0 {
		cfg.MaxWait = time.Duration(ms) * time.Millisecond
	}

	return cfg.Normalized()
}

func writeEvent(w *bufio.Writer, ev session.Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	return w.Flush()
}
