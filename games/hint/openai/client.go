/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package openai provides a hint.Generator backed by an OpenAI-compatible
// chat completion API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Seednode/guesswho/games/hint"
	"github.com/Seednode/guesswho/games/roster"
)

const DefaultModel = "gpt-4o-mini"

// Config selects the account, model and endpoint used for hints.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client implements hint.Generator using chat completions.
type Client struct {
	client *openai.Client
	model  string
}

var _ hint.Generator = (*Client)(nil)

// NewClient creates a new OpenAI hint client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	model := DefaultModel
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClientWithConfig(oc),
		model:  model,
	}, nil
}

// Model returns the model hints are requested from.
func (c *Client) Model() string {
	return c.model
}

// Hint asks the model for a single short hint about target.
func (c *Client) Hint(ctx context.Context, target roster.Character, previous []string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: hint.Prompt(target, previous),
			},
		},
		Temperature: 1.0,
		MaxTokens:   80,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return cleanHint(resp.Choices[0].Message.Content), nil
}

// cleanHint strips whitespace and wrapping quotes models like to add.
func cleanHint(content string) string {
	content = strings.TrimSpace(content)
	content = strings.Trim(content, "\"“”")
	return strings.TrimSpace(content)
}
