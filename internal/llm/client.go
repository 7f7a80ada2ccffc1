// internal/llm/client.go
package llm

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
	"github.com/jasonKoogler/zcommit/internal/logging"
)

// Config holds the endpoint and request defaults
type Config struct {
	Endpoint     string
	Model        string
	Temperature  float64
	MaxTokens    int
	MaxDiffChars int
	Timeout      time.Duration
}

// Client represents the Z.AI chat completions client
type Client struct {
	cfg        Config
	httpClient *http.Client
	extractors []ContentExtractor
	logger     logging.Logger

	mu       sync.Mutex
	inflight *call
}

// call is the handle of one outstanding request
type call struct {
	cancel context.CancelFunc
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithExtractors replaces the response extraction strategies
func WithExtractors(e ...ContentExtractor) Option {
	return func(c *Client) { c.extractors = e }
}

// CallOption overrides request parameters for a single call
type CallOption func(*callOptions)

type callOptions struct {
	temperature float64
	maxTokens   int
}

// WithTemperature overrides the sampling temperature
func WithTemperature(t float64) CallOption {
	return func(o *callOptions) { o.temperature = t }
}

// WithMaxTokens overrides the completion token limit
func WithMaxTokens(n int) CallOption {
	return func(o *callOptions) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// NewClient creates a new client; zero fields of cfg take the defaults
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.MaxDiffChars <= 0 {
		cfg.MaxDiffChars = MaxDiffChars
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		extractors: DefaultExtractors,
		logger:     logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateCommitMessage sends diff to the model and returns a single
// conventional-commit subject line.
func (c *Client) GenerateCommitMessage(ctx context.Context, apiKey, diff string, opts ...CallOption) (string, error) {
	if apiKey == "" {
		return "", apperrors.ErrAPIKeyMissing
	}

	co := callOptions{temperature: c.cfg.Temperature, maxTokens: c.cfg.MaxTokens}
	for _, opt := range opts {
		opt(&co)
	}

	ctx, done := c.begin(ctx)
	defer done()

	truncated, cut := TruncateDiff(diff, c.cfg.MaxDiffChars)
	if cut {
		c.logger.Warn("diff of %s truncated to %d characters", humanize.Bytes(uint64(len(diff))), c.cfg.MaxDiffChars)
	}

	content, err := c.complete(ctx, apiKey, BuildMessages(truncated), co)
	if err != nil {
		return "", err
	}
	return CleanMessage(ExtractCommitLine(content)), nil
}

// Abort cancels the outstanding request, if any
func (c *Client) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != nil {
		c.inflight.cancel()
		c.inflight = nil
	}
}

// begin installs a fresh handle for a call. A previous handle is dropped
// without being cancelled.
func (c *Client) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	h := &call{cancel: cancel}

	c.mu.Lock()
	c.inflight = h
	c.mu.Unlock()

	return ctx, func() {
		c.mu.Lock()
		if c.inflight == h {
			c.inflight = nil
		}
		c.mu.Unlock()
		cancel()
	}
}
