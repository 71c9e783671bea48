//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cre8worthy/appraise-cli/internal/config"
	"github.com/cre8worthy/appraise-cli/internal/ledger"
	"github.com/cre8worthy/appraise-cli/internal/model"
	"github.com/cre8worthy/appraise-cli/internal/oracle"
	"github.com/cre8worthy/appraise-cli/internal/pricing"
)

// Compile-time interface checks.
var (
	_ oracle.Oracle            = (*stubOracle)(nil)
	_ ledger.CalculationLedger = (*memCalcs)(nil)
	_ ledger.InteractionLedger = (*memInteractions)(nil)
)

// stubOracle answers by request kind. A non-nil block channel makes every
// call wait until the channel is closed.
type stubOracle struct {
	answers map[string]string
	block   chan struct{}
	started chan struct{}
}

func (s *stubOracle) Ask(_ context.Context, _, kind string) (string, error) {
	if s.started != nil {
		select {
		case s.started <- struct{}{}:
		default:
		}
	}
	if s.block != nil {
		<-s.block
	}
	if resp, ok := s.answers[kind]; ok {
		return resp, nil
	}
	return "no", nil
}

type memCalcs struct {
	rows []ledger.CalculationRow
}

func (m *memCalcs) Append(_ context.Context, row ledger.CalculationRow) error {
	m.rows = append(m.rows, row)
	return nil
}

func (m *memCalcs) Snapshot(context.Context) ([]ledger.CalculationRow, error) {
	return m.rows, nil
}

type memInteractions struct {
	rows []model.Interaction
}

func (m *memInteractions) Record(_ context.Context, it model.Interaction) error {
	m.rows = append(m.rows, it)
	return nil
}

func (m *memInteractions) Interactions(context.Context) ([]model.Interaction, error) {
	return m.rows, nil
}

func (m *memInteractions) Migrate(context.Context) error { return nil }
func (m *memInteractions) Close() error                  { return nil }

func newTestEnv(o *stubOracle) *env {
	calcs := &memCalcs{}
	return &env{
		Engine:       pricing.NewEngine(o, calcs, config.PricingConfig{}),
		Calculations: calcs,
		Interactions: &memInteractions{},
	}
}

const paintingRequest = `{
	"product_type": "Painting",
	"artist": "Jane Doe",
	"market": "European",
	"materials": ["Canvas", "Oil"],
	"length": 50,
	"width": 70,
	"material_cost": 20,
	"shipping_cost": 10,
	"advertising_cost": 5,
	"time_spent_hours": 8
}`

func TestBuildMux_Health(t *testing.T) {
	mux, ctrl := buildMux(newTestEnv(&stubOracle{}), time.Millisecond)
	defer ctrl.Cancel()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBuildMux_Price(t *testing.T) {
	o := &stubOracle{answers: map[string]string{
		"product_requirements": `{"is_3d": false, "is_digital": false}`,
		"market_demand":        "7",
		"artist_recognition":   "no",
		"price_recommendation": "1200-1500",
	}}
	e := newTestEnv(o)
	mux, ctrl := buildMux(e, time.Millisecond)
	defer ctrl.Cancel()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/price", strings.NewReader(paintingRequest)))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Result model.PriceResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.InDelta(t, 155*1.2*1.15*35.0, resp.Result.Price, 0.1)
	assert.Equal(t, 7, resp.Result.MarketDemand)

	calcs := e.Calculations.(*memCalcs)
	require.Len(t, calcs.rows, 1)
}

func TestBuildMux_PriceValidationError(t *testing.T) {
	mux, ctrl := buildMux(newTestEnv(&stubOracle{}), time.Millisecond)
	defer ctrl.Cancel()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/price",
		strings.NewReader(`{"product_type": "Painting"}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "artist")
}

func TestBuildMux_PriceBadBody(t *testing.T) {
	mux, ctrl := buildMux(newTestEnv(&stubOracle{}), time.Millisecond)
	defer ctrl.Cancel()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/price", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBuildMux_PriceRejectsConcurrentCalculation(t *testing.T) {
	o := &stubOracle{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	mux, ctrl := buildMux(newTestEnv(o), time.Millisecond)
	defer ctrl.Cancel()

	done := make(chan int, 1)
	go func() {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/price", strings.NewReader(paintingRequest)))
		done <- rr.Code
	}()

	// Wait until the first calculation holds the busy flag.
	<-o.started

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/price", strings.NewReader(paintingRequest)))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	close(o.block)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestBuildMux_ProductTypeClassification(t *testing.T) {
	o := &stubOracle{answers: map[string]string{
		"product_requirements": `{"is_3d": true, "needs_height": true, "needs_weight": true}`,
	}}
	mux, ctrl := buildMux(newTestEnv(o), 10*time.Millisecond)
	defer ctrl.Cancel()

	// Nothing settled yet.
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/product-type",
		strings.NewReader(`{"text": "Sculpture"}`)))
	assert.Equal(t, http.StatusAccepted, rr.Code)

	time.Sleep(100 * time.Millisecond)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ProductType string                   `json:"product_type"`
		Profile     model.RequirementProfile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Sculpture", resp.ProductType)
	assert.True(t, resp.Profile.Is3D)
	assert.Equal(t, model.ProfileSourceStructured, resp.Profile.Source)
}

func TestBuildMux_History(t *testing.T) {
	e := newTestEnv(&stubOracle{})
	calcs := e.Calculations.(*memCalcs)
	calcs.rows = []ledger.CalculationRow{{Artist: "Jane Doe", FinalPrice: "7486.90"}}

	mux, ctrl := buildMux(e, time.Millisecond)
	defer ctrl.Cancel()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var rows []ledger.CalculationRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].Artist)
}

func TestResolvePort(t *testing.T) {
	assert.Equal(t, 9090, resolvePort(9090, 8080))
	assert.Equal(t, 8080, resolvePort(0, 8080))
	assert.Equal(t, 0, resolvePort(0, 0))
}
