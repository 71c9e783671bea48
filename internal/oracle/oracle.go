// Package oracle exposes the remote generative-language service as a single
// text-in/text-out primitive with a full audit trail.
package oracle

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cre8worthy/appraise-cli/internal/ledger"
	"github.com/cre8worthy/appraise-cli/internal/model"
	"github.com/cre8worthy/appraise-cli/pkg/anthropic"
)

// Oracle answers free-form prompts. Every call, successful or not, leaves
// one audit row in the interaction ledger.
type Oracle interface {
	Ask(ctx context.Context, prompt, kind string) (string, error)
}

// Client implements Oracle on top of the Anthropic messages API.
type Client struct {
	ai        anthropic.Client
	audit     ledger.InteractionLedger
	limiter   *rate.Limiter
	model     string
	maxTokens int64
}

// Option configures the client.
type Option func(*Client)

// WithRateLimit overrides the default request rate.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithMaxTokens overrides the response token budget.
func WithMaxTokens(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// NewClient creates an oracle client. The audit ledger may not be nil.
func NewClient(ai anthropic.Client, audit ledger.InteractionLedger, modelID string, opts ...Option) *Client {
	c := &Client{
		ai:        ai,
		audit:     audit,
		limiter:   rate.NewLimiter(2, 1),
		model:     modelID,
		maxTokens: 1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask sends one prompt and returns the response text. Failures are recorded
// in the audit ledger with the error text as the response, and the same
// sentinel text is returned alongside the error so callers can degrade to
// defaults instead of aborting.
func (c *Client) Ask(ctx context.Context, prompt, kind string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "oracle: rate limit wait")
	}

	start := time.Now()
	resp, err := c.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	elapsed := time.Since(start)

	if err != nil {
		errText := "API Error: " + err.Error()
		c.record(ctx, kind, prompt, errText, elapsed)
		zap.L().Warn("oracle call failed",
			zap.String("kind", kind),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return errText, eris.Wrapf(err, "oracle: ask %s", kind)
	}

	text := resp.Text()
	c.record(ctx, kind, prompt, text, elapsed)
	resp.Usage.LogCost(c.model, kind)

	return text, nil
}

// record appends the audit row. Audit failures are logged, never propagated:
// losing one audit row must not break a price computation.
func (c *Client) record(ctx context.Context, kind, prompt, response string, elapsed time.Duration) {
	it := model.Interaction{
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Prompt:    prompt,
		Response:  response,
		Duration:  elapsed,
	}
	if err := c.audit.Record(ctx, it); err != nil {
		zap.L().Warn("oracle audit append failed",
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}
