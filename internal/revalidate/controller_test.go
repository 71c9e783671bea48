package revalidate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cre8worthy/appraise-cli/internal/model"
)

// recorder collects applied classifications.
type recorder struct {
	mu      sync.Mutex
	applied []string
}

func (r *recorder) apply(productType string, _ model.RequirementProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, productType)
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.applied))
	copy(out, r.applied)
	return out
}

func instantClassify(_ context.Context, _ string) (model.RequirementProfile, error) {
	return model.RequirementProfile{Source: model.ProfileSourceStructured}, nil
}

func TestController_FiresOnceAfterQuiescence(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := New(50*time.Millisecond, instantClassify, rec.apply)

	c.TextChanged("digital print")
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, []string{"digital print"}, rec.got())
}

func TestController_RapidTypingFiresOnceWithLatestText(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := New(60*time.Millisecond, instantClassify, rec.apply)

	for _, text := range []string{"s", "sc", "scu", "scul", "sculp", "sculpture"} {
		c.TextChanged(text)
		time.Sleep(10 * time.Millisecond) // shorter than the interval
	}
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, []string{"sculpture"}, rec.got())
}

func TestController_BlankInputNeverClassifies(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := New(30*time.Millisecond, instantClassify, rec.apply)

	c.TextChanged("mural")
	c.TextChanged("")
	time.Sleep(120 * time.Millisecond)

	assert.Empty(t, rec.got())
}

func TestController_CancelStopsPendingTimer(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := New(30*time.Millisecond, instantClassify, rec.apply)

	c.TextChanged("mural")
	c.Cancel()
	time.Sleep(120 * time.Millisecond)

	assert.Empty(t, rec.got())
}

func TestController_CancelStopsInFlightClassification(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	ctxErr := make(chan error, 1)
	blocking := func(ctx context.Context, _ string) (model.RequirementProfile, error) {
		close(started)
		<-ctx.Done()
		ctxErr <- ctx.Err()
		return model.RequirementProfile{}, ctx.Err()
	}

	rec := &recorder{}
	c := New(10*time.Millisecond, blocking, rec.apply)

	c.TextChanged("engraving")
	<-started
	c.Cancel()

	assert.ErrorIs(t, <-ctxErr, context.Canceled)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.got())
}

func TestController_EachPauseFiresOnce(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := New(40*time.Millisecond, instantClassify, rec.apply)

	c.TextChanged("mural")
	time.Sleep(120 * time.Millisecond)
	c.TextChanged("fresco")
	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, []string{"mural", "fresco"}, rec.got())
}

func TestController_StaleClassificationIsDiscarded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan string, 2)
	slowClassify := func(_ context.Context, text string) (model.RequirementProfile, error) {
		started <- text
		<-release
		return model.RequirementProfile{}, nil
	}

	rec := &recorder{}
	c := New(20*time.Millisecond, slowClassify, rec.apply)

	c.TextChanged("oil painting")
	require.Equal(t, "oil painting", <-started)

	// New keystroke while the first classification is still in flight.
	c.TextChanged("oil pastel")
	close(release)
	require.Equal(t, "oil pastel", <-started)
	time.Sleep(100 * time.Millisecond)

	// The answer for "oil painting" arrived after the text moved on and
	// must not have been applied.
	assert.Equal(t, []string{"oil pastel"}, rec.got())
}

func TestController_ClassificationErrorIsNotApplied(t *testing.T) {
	t.Parallel()

	failing := func(context.Context, string) (model.RequirementProfile, error) {
		return model.RequirementProfile{}, eris.New("oracle down")
	}
	rec := &recorder{}
	c := New(20*time.Millisecond, failing, rec.apply)

	c.TextChanged("collage")
	time.Sleep(100 * time.Millisecond)

	assert.Empty(t, rec.got())
}

func TestNew_NonPositiveIntervalUsesDefault(t *testing.T) {
	t.Parallel()

	c := New(0, instantClassify, (&recorder{}).apply)
	assert.Equal(t, DefaultInterval, c.interval)
}
