package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/cre8worthy/appraise-cli/internal/ledger"
	"github.com/cre8worthy/appraise-cli/internal/oracle"
	"github.com/cre8worthy/appraise-cli/internal/pricing"
	"github.com/cre8worthy/appraise-cli/pkg/anthropic"
)

// env wires the oracle, ledgers, and pricing engine for one command run.
type env struct {
	Engine       *pricing.Engine
	Calculations ledger.CalculationLedger
	Interactions ledger.InteractionLedger
}

func initEnv(ctx context.Context) (*env, error) {
	interactions, err := ledger.NewSQLiteInteractions(cfg.Ledger.DBFile)
	if err != nil {
		return nil, eris.Wrap(err, "init: open interaction ledger")
	}
	if err := interactions.Migrate(ctx); err != nil {
		interactions.Close()
		return nil, eris.Wrap(err, "init: migrate interaction ledger")
	}

	calcs := ledger.NewCSV(cfg.Ledger.DataFile)

	ai := anthropic.NewClient(cfg.Anthropic.Key)
	o := oracle.NewClient(ai, interactions, cfg.Anthropic.Model,
		oracle.WithRateLimit(cfg.Anthropic.RateRPS),
		oracle.WithMaxTokens(cfg.Anthropic.MaxTokens),
	)

	return &env{
		Engine:       pricing.NewEngine(o, calcs, cfg.Pricing),
		Calculations: calcs,
		Interactions: interactions,
	}, nil
}

func (e *env) Close() {
	_ = e.Interactions.Close()
}
