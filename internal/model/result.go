package model

import "time"

// PriceResult is the output record of one price computation. It is created
// once per calculation and never mutated afterwards.
type PriceResult struct {
	Timestamp    time.Time `json:"timestamp"`
	Price        float64   `json:"price"`
	MarketDemand int       `json:"market_demand"` // 1-10
	Dimensions   string    `json:"dimensions"`
	Materials    string    `json:"materials"`
	ArtistKnown  bool      `json:"artist_known"`

	// AdvisoryPrice is the oracle's own free-text price recommendation,
	// stored verbatim and never reconciled with the computed price.
	AdvisoryPrice string `json:"advisory_price"`

	// HeightUsed and WeightUsed are the values that entered the dimension
	// factor; blank when the product is not three-dimensional.
	HeightUsed string `json:"height_used"`
	WeightUsed string `json:"weight_used"`
}

// Interaction is the audit record of one oracle call. One row is written for
// every call, success or failure, and rows are never mutated.
type Interaction struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Kind      string        `json:"kind"`
	Prompt    string        `json:"prompt"`
	Response  string        `json:"response"`
	Duration  time.Duration `json:"duration"`
}
