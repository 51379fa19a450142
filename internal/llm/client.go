// Package llm talks to an Ollama-compatible generative endpoint. The
// capability is probe-and-list only for now: entity extraction over the
// generative model is an extension point that deliberately returns nothing,
// so llm-mode callers always fall back to pattern results.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Aminorer/anonymizer-v3/internal/entity"
	"github.com/Aminorer/anonymizer-v3/internal/logger"
	"go.uber.org/zap"
)

// Probe timeouts. Availability is a cheap reachability check; listing
// models reads a response body and gets a little longer.
const (
	availabilityTimeout = 3 * time.Second
	listModelsTimeout   = 5 * time.Second
)

// Config holds the connection settings for one request. It is a plain
// value; nothing here is process-wide state.
type Config struct {
	Endpoint       string `json:"endpoint"`
	Model          string `json:"model_name"`
	CustomPrompt   string `json:"custom_prompt,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "llama3.2:3b"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return c
}

// Client queries one endpoint. Network failures never escape the client;
// they degrade to false/empty results.
type Client struct {
	config Config
	http   *http.Client
	logger *logger.Logger
}

// NewClient creates a client for the given endpoint configuration.
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		config: cfg.withDefaults(),
		http:   &http.Client{},
		logger: log,
	}
}

// Config returns the effective configuration after defaulting.
func (c *Client) Config() Config {
	return c.config
}

// CheckAvailability probes the endpoint's tag listing with a short timeout.
// It never returns an error: unreachable, slow or non-200 all mean false.
func (c *Client) CheckAvailability(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, availabilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tagsURL(), nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("LLM endpoint unreachable", zap.String("endpoint", c.config.Endpoint), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// ListModels returns the names of installed models, or an empty slice on
// any failure.
func (c *Client) ListModels(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, listModelsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tagsURL(), nil)
	if err != nil {
		return []string{}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("LLM model listing failed", zap.String("endpoint", c.config.Endpoint), zap.Error(err))
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []string{}
	}

	var payload struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Debug("LLM model listing returned malformed JSON", zap.Error(err))
		return []string{}
	}

	names := make([]string, 0, len(payload.Models))
	for _, m := range payload.Models {
		names = append(names, m.Name)
	}
	return names
}

// ExtractEntities is the extraction extension point. It returns an empty
// result for every input until generative extraction is completed; callers
// depend on llm mode never producing less than pattern mode.
func (c *Client) ExtractEntities(ctx context.Context, text string) ([]entity.Entity, error) {
	return []entity.Entity{}, nil
}

func (c *Client) tagsURL() string {
	u, err := url.JoinPath(c.config.Endpoint, "/api/tags")
	if err != nil {
		return fmt.Sprintf("%s/api/tags", c.config.Endpoint)
	}
	return u
}
