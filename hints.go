/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"time"

	"github.com/Seednode/guesswho/games/guesswho"
	"github.com/Seednode/guesswho/games/hint"
	"github.com/Seednode/guesswho/games/hint/openai"
)

func newHintGenerator(cfg *Config) (hint.Generator, error) {
	if cfg.openaiKey == "" {
		return hint.Offline{}, nil
	}

	client, err := openai.NewClient(openai.Config{
		APIKey:  cfg.openaiKey,
		Model:   cfg.openaiModel,
		BaseURL: cfg.openaiBaseURL,
	})
	if err != nil {
		return nil, err
	}

	return client, nil
}

func hintSource(gen hint.Generator) string {
	switch g := gen.(type) {
	case *openai.Client:
		return "openai/" + g.Model()
	case hint.Offline:
		return "offline"
	default:
		return "custom"
	}
}

type hintResult struct {
	ticket guesswho.Ticket
	text   string
}

// fetchHint resolves t outside the hub loop and hands the result back to it.
// The result is delivered even when generation fails, so the game's fetching
// guard is always released.
func (h *Hub) fetchHint(t guesswho.Ticket) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(h.ctx, h.cfg.hintTimeout)
	defer cancel()

	text, err := hint.Resolve(ctx, h.cfg.hints, t.Target, t.Previous)
	if err != nil {
		logf(h.cfg, "HINTS: Falling back for %s round %d: %v", h.id, t.Round, err)
	} else {
		logf(h.cfg, "HINTS: Generated hint for %s round %d in %s",
			h.id,
			t.Round,
			time.Since(startTime).Round(time.Millisecond),
		)
	}

	select {
	case h.hintResults <- hintResult{ticket: t, text: text}:
	case <-h.ctx.Done():
	}
}
