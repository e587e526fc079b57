package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator sends a prompt and returns the raw text of a JSON answer.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// ClientConfig is the configuration for the Gemini client.
type ClientConfig struct {
	APIKey string
	Model  string
	Logger log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "gemini.Client", "model": c.Model})
	return nil
}

// Client is a Generator backed by the Gemini API in JSON mode.
type Client struct {
	client *genai.Client
	model  string
	logger log.Logger
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create genai client: %w", err)
	}

	cfg.Logger.Infof("Connected to LLM model")

	return &Client{
		client: client,
		model:  cfg.Model,
		logger: cfg.Logger,
	}, nil
}

// GenerateJSON implements Generator.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}

	// Blocked responses come back without candidates.
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response, possibly safety blocked: %w", model.ErrMalformedResponse)
	}

	return text, nil
}
