package pricing

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/cre8worthy/appraise-cli/internal/model"
)

// requirementsAnswer is the JSON shape requested from the oracle.
type requirementsAnswer struct {
	NeedsHeight     bool `json:"needs_height"`
	NeedsWeight     bool `json:"needs_weight"`
	NeedsResolution bool `json:"needs_resolution"`
	NeedsDuration   bool `json:"needs_duration"`
	Is3D            bool `json:"is_3d"`
	IsDigital       bool `json:"is_digital"`
}

// Classify asks the oracle which optional fields a product type needs.
// Structured JSON answers win; anything else goes through the keyword
// heuristic. Oracle failures degrade the same way, so this never fails a
// computation.
func (e *Engine) Classify(ctx context.Context, productType string) (model.RequirementProfile, error) {
	resp, err := e.oracle.Ask(ctx, requirementsPrompt(productType), kindRequirements)
	if err != nil {
		zap.L().Warn("requirement classification degraded to heuristic",
			zap.String("product_type", productType),
			zap.Error(err),
		)
	}
	return ParseRequirementProfile(resp), nil
}

// ParseRequirementProfile turns an oracle answer into a RequirementProfile.
// Missing JSON keys default to false.
func ParseRequirementProfile(resp string) model.RequirementProfile {
	if raw, ok := extractJSON(resp); ok {
		var ans requirementsAnswer
		if err := json.Unmarshal([]byte(raw), &ans); err == nil {
			return model.RequirementProfile{
				NeedsHeight:     ans.NeedsHeight,
				NeedsWeight:     ans.NeedsWeight,
				NeedsResolution: ans.NeedsResolution,
				NeedsDuration:   ans.NeedsDuration,
				Is3D:            ans.Is3D,
				IsDigital:       ans.IsDigital,
				Source:          model.ProfileSourceStructured,
			}
		}
	}
	return HeuristicProfile(resp)
}

// HeuristicProfile derives requirement flags from keyword presence in an
// unstructured oracle answer. This is the named best-effort degrade path,
// not an error condition.
func HeuristicProfile(resp string) model.RequirementProfile {
	s := strings.ToLower(resp)
	contains := func(terms ...string) bool {
		for _, t := range terms {
			if strings.Contains(s, t) {
				return true
			}
		}
		return false
	}
	return model.RequirementProfile{
		IsDigital:       contains("digital"),
		Is3D:            contains("3d", "three-dimensional", "sculpture", "installation"),
		NeedsHeight:     contains("height", "dimension"),
		NeedsWeight:     contains("weight", "mass"),
		NeedsDuration:   contains("duration", "length"),
		NeedsResolution: contains("resolution", "quality"),
		Source:          model.ProfileSourceHeuristic,
	}
}
