// Package pricing turns a product description plus oracle answers into a
// recommended price. Oracle failures degrade to documented defaults; only
// pre-flight validation can refuse a computation.
package pricing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cre8worthy/appraise-cli/internal/config"
	"github.com/cre8worthy/appraise-cli/internal/ledger"
	"github.com/cre8worthy/appraise-cli/internal/model"
	"github.com/cre8worthy/appraise-cli/internal/oracle"
)

const defaultMarketDemand = 5

// Engine composes oracle answers and heuristic arithmetic into a price.
type Engine struct {
	oracle oracle.Oracle
	calcs  ledger.CalculationLedger

	hourlyRate      float64
	reputationBonus float64
}

// NewEngine creates a pricing engine. The calculation ledger may be nil when
// persistence is not wanted (classification-only callers).
func NewEngine(o oracle.Oracle, calcs ledger.CalculationLedger, cfg config.PricingConfig) *Engine {
	hourly := cfg.HourlyRate
	if hourly == 0 {
		hourly = 15
	}
	bonus := cfg.ReputationBonus
	if bonus == 0 {
		bonus = 50
	}
	return &Engine{
		oracle:          o,
		calcs:           calcs,
		hourlyRate:      hourly,
		reputationBonus: bonus,
	}
}

// Outcome is the result of one price computation. Warnings carry degraded
// persistence, never a refused calculation.
type Outcome struct {
	Result   *model.PriceResult
	Profile  model.RequirementProfile
	Warnings []string
}

// ComputePrice runs the full pricing sequence for one description.
// Validation failures return before any oracle call; every oracle failure
// after that substitutes a default and the computation completes.
func (e *Engine) ComputePrice(ctx context.Context, desc *model.ProductDescription) (*Outcome, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	profile, _ := e.Classify(ctx, desc.ProductType)

	demandResp, _ := e.oracle.Ask(ctx, marketDemandPrompt(desc.ProductType, desc.Market), kindMarketDemand)
	demand := firstInt(demandResp, defaultMarketDemand)

	knownResp, _ := e.oracle.Ask(ctx, artistRecognitionPrompt(desc.Artist), kindArtistRecognition)
	known := isYes(knownResp)

	var (
		referencePrice float64
		haveReference  bool
	)
	if known {
		refResp, err := e.oracle.Ask(ctx, artistPricePrompt(desc.Artist, desc.ProductType), kindArtistPrice)
		if err == nil {
			referencePrice, haveReference = meanOfNumbers(refResp)
			// A zero mean reads as no reference at all.
			if referencePrice == 0 {
				haveReference = false
			}
		}
	}

	reputationBonus := 0.0
	if known {
		reputationBonus = e.reputationBonus
	}

	// Optional measurements only count when the profile asks for them.
	heightVal := 0.0
	if profile.Is3D || profile.NeedsHeight {
		heightVal = desc.Height
	}
	weightVal := 0.0
	if profile.Is3D || profile.NeedsWeight {
		weightVal = desc.Weight
	}

	dimFactor, dimensions := dimensionFactor(desc, profile, heightVal, weightVal)

	baseCost := desc.MaterialCost + desc.ShippingCost + desc.AdvertisingCost
	timeCost := desc.TimeSpentHours * e.hourlyRate

	complexity := 1.0 + 0.1*float64(len(desc.Materials))
	marketRarity := 0.8 + 0.05*float64(demand)

	additional := 1.0
	if desc.Resolution != model.ResolutionNone {
		additional *= desc.Resolution.Factor()
	}
	if desc.DurationMinutes > 0 {
		additional *= min(3.0, 1+desc.DurationMinutes/60)
	}

	price := (baseCost + timeCost + reputationBonus) * complexity * marketRarity * dimFactor * additional

	if known && haveReference {
		price = (price + referencePrice) / 2
	}

	// Digital premium on top of the tier factor above: this second scaling
	// uses the caller-supplied knob, matching the source behavior.
	if profile.IsDigital && desc.Resolution != model.ResolutionNone {
		rf := desc.ResolutionFactor
		if rf == 0 {
			rf = 1.0
		}
		price *= 1.0 + 0.1*rf
	}

	weightInfo := ""
	if weightVal > 0 {
		weightInfo = fmt.Sprintf("%s kg", formatValue(weightVal))
	}
	advisory, _ := e.oracle.Ask(ctx, priceAdvicePrompt(desc, dimensions, weightInfo, profile.IsDigital), kindPriceAdvice)

	result := &model.PriceResult{
		Timestamp:     time.Now(),
		Price:         price,
		MarketDemand:  demand,
		Dimensions:    dimensions,
		Materials:     desc.MaterialsText(),
		ArtistKnown:   known,
		AdvisoryPrice: advisory,
	}
	if profile.Is3D {
		result.HeightUsed = formatValue(heightVal)
		result.WeightUsed = formatValue(weightVal)
	}

	outcome := &Outcome{Result: result, Profile: profile}

	if e.calcs != nil {
		if err := e.calcs.Append(ctx, ledger.NewCalculationRow(desc, result)); err != nil {
			zap.L().Warn("ledger append failed", zap.Error(err))
			outcome.Warnings = append(outcome.Warnings,
				"price computed but could not be saved to the ledger: "+err.Error())
		}
	}

	return outcome, nil
}

// dimensionFactor derives the size multiplier and the display dimension
// string from the classification.
func dimensionFactor(desc *model.ProductDescription, profile model.RequirementProfile, heightVal, weightVal float64) (float64, string) {
	switch {
	case profile.IsDigital:
		pixelArea := desc.Length * desc.Width
		if pixelArea <= 0 {
			return 1.0, "Unknown"
		}
		dims := fmt.Sprintf("%spx x %spx", formatValue(desc.Length), formatValue(desc.Width))
		switch {
		case pixelArea < 1_000_000:
			return 0.8, dims
		case pixelArea < 4_000_000:
			return 1.0, dims
		case pixelArea < 8_000_000:
			return 1.2, dims
		default:
			return 1.5, dims
		}

	case profile.Is3D:
		volume := desc.Length * desc.Width * heightVal
		volumeFactor := max(1.0, volume/1000)
		weightFactor := max(1.0, weightVal/5)
		dims := fmt.Sprintf("%scm x %scm x %scm",
			formatValue(desc.Length), formatValue(desc.Width), formatValue(heightVal))
		return (volumeFactor + weightFactor) / 2, dims

	default:
		surface := desc.Length * desc.Width
		dims := fmt.Sprintf("%scm x %scm", formatValue(desc.Length), formatValue(desc.Width))
		return max(1.0, surface/100), dims
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
