// Package revalidate decides when free-text input has settled and triggers a
// single requirement re-classification per pause, instead of one per
// keystroke.
package revalidate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cre8worthy/appraise-cli/internal/model"
)

// DefaultInterval is the inactivity period after which typing counts as
// finished.
const DefaultInterval = time.Second

// ClassifyFunc resolves a product type to its requirement profile. It is the
// pricing engine's Classify operation in production.
type ClassifyFunc func(ctx context.Context, productType string) (model.RequirementProfile, error)

// ApplyFunc receives the profile for a settled text value. It is never
// called with a profile that belongs to text the user has already replaced.
type ApplyFunc func(productType string, profile model.RequirementProfile)

// Controller watches a free-text field and re-classifies its value once the
// input has been quiet for the configured interval. Every new keystroke
// cancels and rearms the timer, so at most one classification fires per
// settled value.
type Controller struct {
	classify ClassifyFunc
	apply    ApplyFunc
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timer  *time.Timer
	latest string
	gen    uint64 // bumped on every TextChanged; stale results are dropped
}

// New creates a controller. A non-positive interval falls back to
// DefaultInterval.
func New(interval time.Duration, classify ClassifyFunc, apply ApplyFunc) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		classify: classify,
		apply:    apply,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// TextChanged observes the current value of the field. Any pending timer is
// cancelled; blank input leaves the controller idle, anything else arms a
// fresh timer capturing the value.
func (c *Controller) TextChanged(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.latest = text

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if text == "" {
		return
	}

	captured := text
	gen := c.gen
	c.timer = time.AfterFunc(c.interval, func() {
		c.fired(captured, gen)
	})
}

// Cancel shuts the controller down: any pending timer is stopped and any
// in-flight classification is cancelled through its context.
func (c *Controller) Cancel() {
	c.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// fired runs when the inactivity timer elapses. If the text moved on while
// the timer was pending, the timer rearms with the live value; otherwise the
// classification runs once.
func (c *Controller) fired(captured string, gen uint64) {
	c.mu.Lock()
	if c.latest != captured {
		// Changed during the wait: restart for the live value.
		live := c.latest
		c.mu.Unlock()
		c.TextChanged(live)
		return
	}
	c.timer = nil
	c.mu.Unlock()

	profile, err := c.classify(c.ctx, captured)
	if err != nil {
		zap.L().Warn("requirement classification failed",
			zap.String("product_type", captured),
			zap.Error(err),
		)
		return
	}

	// A keystroke may have arrived while the classification was in flight;
	// its answer belongs to text the user abandoned.
	c.mu.Lock()
	stale := c.gen != gen
	c.mu.Unlock()
	if stale {
		zap.L().Debug("discarding stale classification",
			zap.String("product_type", captured),
		)
		return
	}

	c.apply(captured, profile)
}
