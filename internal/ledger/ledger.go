// Package ledger persists calculation rows to a flat CSV file and oracle
// interaction audit rows to a SQLite database.
package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cre8worthy/appraise-cli/internal/model"
)

// CanonicalHeader is the fixed column order of the calculation ledger.
var CanonicalHeader = []string{
	"Date", "Artist", "Market", "Type", "Materials",
	"Length (cm)", "Width (cm)", "Height (cm)", "Weight (kg)",
	"Material Cost (€)", "Shipping Cost (€)", "Advertising Cost (€)",
	"Creation Time (h)", "Final Price (€)", "Market Demand (1-10)",
	"AI Price Recommendation (€)",
}

// CalculationRow is one flat row of the calculation ledger, in canonical
// column order. Height and Weight are blank when not applicable.
type CalculationRow struct {
	Date            string
	Artist          string
	Market          string
	ProductType     string
	Materials       string
	Length          string
	Width           string
	Height          string
	Weight          string
	MaterialCost    string
	ShippingCost    string
	AdvertisingCost string
	CreationTime    string
	FinalPrice      string
	MarketDemand    string
	AdvisoryPrice   string
}

// NewCalculationRow flattens a description and its result into a ledger row.
func NewCalculationRow(desc *model.ProductDescription, res *model.PriceResult) CalculationRow {
	return CalculationRow{
		Date:            res.Timestamp.Format("2006-01-02 15:04:05"),
		Artist:          desc.Artist,
		Market:          desc.Market,
		ProductType:     desc.ProductType,
		Materials:       res.Materials,
		Length:          formatNumber(desc.Length),
		Width:           formatNumber(desc.Width),
		Height:          res.HeightUsed,
		Weight:          res.WeightUsed,
		MaterialCost:    formatNumber(desc.MaterialCost),
		ShippingCost:    formatNumber(desc.ShippingCost),
		AdvertisingCost: formatNumber(desc.AdvertisingCost),
		CreationTime:    formatNumber(desc.TimeSpentHours),
		FinalPrice:      fmt.Sprintf("%.2f", res.Price),
		MarketDemand:    strconv.Itoa(res.MarketDemand),
		AdvisoryPrice:   res.AdvisoryPrice,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r CalculationRow) record() []string {
	return []string{
		r.Date, r.Artist, r.Market, r.ProductType, r.Materials,
		r.Length, r.Width, r.Height, r.Weight,
		r.MaterialCost, r.ShippingCost, r.AdvertisingCost,
		r.CreationTime, r.FinalPrice, r.MarketDemand, r.AdvisoryPrice,
	}
}

// CalculationLedger is the append-only store of completed calculations.
// Appends open and close the file per row so the file can be inspected or
// rotated externally between writes.
type CalculationLedger interface {
	Append(ctx context.Context, row CalculationRow) error
	Snapshot(ctx context.Context) ([]CalculationRow, error)
}

// InteractionLedger is the append-only audit store of oracle calls.
type InteractionLedger interface {
	Record(ctx context.Context, it model.Interaction) error
	Interactions(ctx context.Context) ([]model.Interaction, error)
	Migrate(ctx context.Context) error
	Close() error
}

// headerSynonyms maps localized and abbreviated column headers seen in older
// ledger files to the canonical header set.
var headerSynonyms = map[string]string{
	"Longueur":         "Length (cm)",
	"Longueur (cm)":    "Length (cm)",
	"Largeur":          "Width (cm)",
	"Largeur (cm)":     "Width (cm)",
	"Hauteur":          "Height (cm)",
	"Hauteur (cm)":     "Height (cm)",
	"Poids":            "Weight (kg)",
	"Poids (kg)":       "Weight (kg)",
	"Matériaux":        "Materials",
	"Coût Matériaux":   "Material Cost (€)",
	"Coût Livraison":   "Shipping Cost (€)",
	"Coût Publicité":   "Advertising Cost (€)",
	"Temps Création":   "Creation Time (h)",
	"Prix Calculé":     "Final Price (€)",
	"Demande Marché":   "Market Demand (1-10)",
	"gemini_price":     "AI Price Recommendation (€)",
	"Time":             "Creation Time (h)",
	"Price":            "Final Price (€)",
	"Demand":           "Market Demand (1-10)",
	"AI Price":         "AI Price Recommendation (€)",
	"Material Cost":    "Material Cost (€)",
	"Shipping Cost":    "Shipping Cost (€)",
	"Advertising Cost": "Advertising Cost (€)",
}

// CanonicalColumn resolves a header name to its canonical form. Unknown
// headers pass through unchanged.
func CanonicalColumn(name string) string {
	if canonical, ok := headerSynonyms[name]; ok {
		return canonical
	}
	return name
}

// interactionTimeFormat is the timestamp layout stored in the database.
// Fixed-width fractional seconds keep lexicographic ORDER BY equal to
// chronological order.
const interactionTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"
