package pricing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MaterialSuggestions groups recommended materials into base/support
// materials and other materials or techniques.
type MaterialSuggestions struct {
	Canvas []string `json:"canvas"`
	Other  []string `json:"other"`
}

// defaultSuggestions is the last-resort material list when the oracle answer
// yields nothing usable.
var defaultSuggestions = MaterialSuggestions{
	Canvas: []string{"Canvas", "Cotton", "Linen", "Silk", "Paper", "Other"},
	Other:  []string{"Wood", "Acrylic", "Oil", "Clay", "Metal", "Glass", "Plastic", "Other"},
}

// VerifyArtisticProduct asks whether a free-text product type names a real
// artistic product. Used when the form's custom type field settles.
func (e *Engine) VerifyArtisticProduct(ctx context.Context, productType string) (bool, error) {
	resp, err := e.oracle.Ask(ctx, productValidationPrompt(productType), kindProductValidation)
	if err != nil {
		return false, eris.Wrapf(err, "pricing: verify product type %s", productType)
	}
	return isYes(resp), nil
}

// VerifyMaterials asks whether a material combination is feasible for the
// product type.
func (e *Engine) VerifyMaterials(ctx context.Context, productType string, materials []string) (bool, error) {
	resp, err := e.oracle.Ask(ctx, materialCheckPrompt(productType, materials), kindMaterialCheck)
	if err != nil {
		return false, eris.Wrapf(err, "pricing: verify materials for %s", productType)
	}
	return isYes(resp), nil
}

// RecommendMaterials asks for the materials commonly used for a product
// type. Unparseable answers fall back to a comma-split of the raw response,
// then to a fixed default list. Never errors on unstructured text.
func (e *Engine) RecommendMaterials(ctx context.Context, productType string) (MaterialSuggestions, error) {
	resp, err := e.oracle.Ask(ctx, materialAdvicePrompt(productType), kindMaterialAdvice)
	if err != nil {
		zap.L().Warn("material recommendation degraded to defaults",
			zap.String("product_type", productType),
			zap.Error(err),
		)
		return defaultSuggestions, nil
	}
	return ParseMaterialSuggestions(resp), nil
}

// ParseMaterialSuggestions parses a material recommendation answer.
func ParseMaterialSuggestions(resp string) MaterialSuggestions {
	if raw, ok := extractJSON(resp); ok {
		var s MaterialSuggestions
		if err := json.Unmarshal([]byte(raw), &s); err == nil && (len(s.Canvas) > 0 || len(s.Other) > 0) {
			return s
		}
	}

	// Fallback: treat the answer as a comma-separated list, split in halves.
	var items []string
	for _, part := range strings.Split(resp, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	if len(items) > 0 {
		mid := len(items) / 2
		return MaterialSuggestions{Canvas: items[:mid], Other: items[mid:]}
	}

	return defaultSuggestions
}
