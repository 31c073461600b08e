// Package ai fronts the generative content provider. Every operation
// degrades on failure: callers get empty or placeholder content, never an
// error that should end the session.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"carvis-engine/internal/config"
)

// Fallback is returned by Generate when the provider call fails, matching
// the product's "couldn't complete" copy.
const Fallback = "I'm having a bit of trouble connecting right now. Please try again later."

type Client struct {
	oc      *openai.Client
	model   string
	limiter *rate.Limiter

	curatedCount  int
	discoverCount int
}

func New(cfg config.Config, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ai: api key is empty")
	}

	occfg := openai.DefaultConfig(apiKey)
	if cfg.AI.BaseURL != "" {
		occfg.BaseURL = cfg.AI.BaseURL
	}

	return &Client{
		oc:            openai.NewClientWithConfig(occfg),
		model:         cfg.AI.Model,
		limiter:       rate.NewLimiter(rate.Limit(cfg.AI.RequestsPerSec), 2),
		curatedCount:  cfg.AI.CuratedCount,
		discoverCount: cfg.AI.DiscoverCount,
	}, nil
}

func (c *Client) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.oc.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Generate returns the provider's text for a prompt, or the Fallback copy
// when the call fails.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	out, err := c.complete(ctx, prompt, false)
	if err != nil {
		log.Printf("level=warn msg=\"generate failed\" err=%v", err)
		return Fallback
	}
	return out
}

// GenerateJSON asks for a JSON object response and unmarshals it into out.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out any) error {
	text, err := c.complete(ctx, prompt, true)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(stripFences(text)), out)
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
