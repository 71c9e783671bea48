package model

import (
	"fmt"
	"strings"
)

// ResolutionTier is an ordered quality tier for digital and video products.
type ResolutionTier string

// Resolution tiers, lowest to highest.
const (
	ResolutionNone   ResolutionTier = ""
	ResolutionHD     ResolutionTier = "HD"
	ResolutionFullHD ResolutionTier = "Full HD"
	Resolution2K     ResolutionTier = "2K"
	Resolution4K     ResolutionTier = "4K"
	Resolution8K     ResolutionTier = "8K"
)

// Factor returns the price multiplier associated with the tier.
func (r ResolutionTier) Factor() float64 {
	switch r {
	case Resolution4K, Resolution8K:
		return 1.4
	case Resolution2K, ResolutionFullHD:
		return 1.2
	case ResolutionHD:
		return 1.1
	default:
		return 1.0
	}
}

// ProductDescription is the full set of attributes an artist provides about
// one art object. Linear dimensions are pixels for digital products and
// centimeters otherwise. Absent optional fields are zero, never an error.
type ProductDescription struct {
	ProductType string   `json:"product_type" yaml:"product_type"`
	Artist      string   `json:"artist" yaml:"artist"`
	Market      string   `json:"market" yaml:"market"`
	Materials   []string `json:"materials" yaml:"materials"`

	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`

	Resolution      ResolutionTier `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	DurationMinutes float64        `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`

	MaterialCost    float64 `json:"material_cost" yaml:"material_cost"`
	ShippingCost    float64 `json:"shipping_cost" yaml:"shipping_cost"`
	AdvertisingCost float64 `json:"advertising_cost" yaml:"advertising_cost"`
	TimeSpentHours  float64 `json:"time_spent_hours" yaml:"time_spent_hours"`

	// ResolutionFactor is a caller-supplied scalar applied as a premium on
	// digital products with a resolution tier. Defaults to 1.0 when zero.
	ResolutionFactor float64 `json:"resolution_factor,omitempty" yaml:"resolution_factor,omitempty"`
}

// ValidationError reports a required field missing or malformed before any
// oracle call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Validate performs the cheap pre-oracle checks. Missing required text
// fields, an empty material set, and negative numeric fields all fail fast.
func (d *ProductDescription) Validate() error {
	if strings.TrimSpace(d.ProductType) == "" {
		return &ValidationError{Field: "product_type", Reason: "required"}
	}
	if strings.TrimSpace(d.Artist) == "" {
		return &ValidationError{Field: "artist", Reason: "required"}
	}
	if strings.TrimSpace(d.Market) == "" {
		return &ValidationError{Field: "market", Reason: "required"}
	}
	if len(d.Materials) == 0 {
		return &ValidationError{Field: "materials", Reason: "at least one material required"}
	}
	numeric := []struct {
		name  string
		value float64
	}{
		{"length", d.Length},
		{"width", d.Width},
		{"height", d.Height},
		{"weight", d.Weight},
		{"duration_minutes", d.DurationMinutes},
		{"material_cost", d.MaterialCost},
		{"shipping_cost", d.ShippingCost},
		{"advertising_cost", d.AdvertisingCost},
		{"time_spent_hours", d.TimeSpentHours},
	}
	for _, f := range numeric {
		if f.value < 0 {
			return &ValidationError{Field: f.name, Reason: "must not be negative"}
		}
	}
	return nil
}

// MaterialsText renders the material set for display and persistence.
func (d *ProductDescription) MaterialsText() string {
	if len(d.Materials) == 0 {
		return "None"
	}
	return strings.Join(d.Materials, ", ")
}
