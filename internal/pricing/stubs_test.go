package pricing

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/cre8worthy/appraise-cli/internal/ledger"
	"github.com/cre8worthy/appraise-cli/internal/oracle"
)

// Compile-time interface checks.
var (
	_ oracle.Oracle            = (*stubOracle)(nil)
	_ ledger.CalculationLedger = (*memCalcs)(nil)
)

// stubOracle answers by request kind and records every call.
type stubOracle struct {
	answers map[string]string
	errs    map[string]error
	calls   []string
	prompts []string
}

func (s *stubOracle) Ask(_ context.Context, prompt, kind string) (string, error) {
	s.calls = append(s.calls, kind)
	s.prompts = append(s.prompts, prompt)
	if err, ok := s.errs[kind]; ok {
		// Mirror the real client: error text comes back as the response.
		return "API Error: " + err.Error(), eris.Wrapf(err, "oracle: ask %s", kind)
	}
	if resp, ok := s.answers[kind]; ok {
		return resp, nil
	}
	return "no", nil
}

func (s *stubOracle) callCount(kind string) int {
	n := 0
	for _, c := range s.calls {
		if c == kind {
			n++
		}
	}
	return n
}

// memCalcs is an in-memory calculation ledger.
type memCalcs struct {
	rows []ledger.CalculationRow
	err  error
}

func (m *memCalcs) Append(_ context.Context, row ledger.CalculationRow) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, row)
	return nil
}

func (m *memCalcs) Snapshot(_ context.Context) ([]ledger.CalculationRow, error) {
	out := make([]ledger.CalculationRow, len(m.rows))
	copy(out, m.rows)
	return out, nil
}
