package model

// ProfileSource tags how a RequirementProfile was obtained.
type ProfileSource string

const (
	// ProfileSourceStructured means the oracle answered with parseable JSON.
	ProfileSourceStructured ProfileSource = "structured"
	// ProfileSourceHeuristic means the flags were derived from keyword
	// presence in an unstructured oracle answer.
	ProfileSourceHeuristic ProfileSource = "heuristic"
)

// RequirementProfile describes which optional fields a product type needs
// and whether it is digital or three-dimensional. It is requested fresh for
// every product type and never cached across types.
type RequirementProfile struct {
	NeedsHeight     bool `json:"needs_height"`
	NeedsWeight     bool `json:"needs_weight"`
	NeedsResolution bool `json:"needs_resolution"`
	NeedsDuration   bool `json:"needs_duration"`
	Is3D            bool `json:"is_3d"`
	IsDigital       bool `json:"is_digital"`

	Source ProfileSource `json:"source"`
}

// DimensionUnit returns the unit the form should display for linear
// dimensions: pixels for digital products, centimeters otherwise.
func (p RequirementProfile) DimensionUnit() string {
	if p.IsDigital {
		return "px"
	}
	return "cm"
}
