package pricing

import (
	"fmt"
	"strings"

	"github.com/cre8worthy/appraise-cli/internal/model"
)

// Request kinds tagged on every oracle interaction.
const (
	kindRequirements      = "product_requirements"
	kindMarketDemand      = "market_demand"
	kindArtistRecognition = "artist_recognition"
	kindArtistPrice       = "artist_price_check"
	kindPriceAdvice       = "price_recommendation"
	kindProductValidation = "product_type_validation"
	kindMaterialCheck     = "material_combination_check"
	kindMaterialAdvice    = "material_recommendation"
)

func requirementsPrompt(productType string) string {
	return fmt.Sprintf(`For an artistic product of type '%s', which of the following characteristics are generally necessary?
Answer ONLY with a JSON object with these keys and true or false values:
{
    "needs_height": true/false,
    "needs_weight": true/false,
    "needs_resolution": true/false,
    "needs_duration": true/false,
    "is_3d": true/false,
    "is_digital": true/false
}`, productType)
}

func marketDemandPrompt(productType, market string) string {
	return fmt.Sprintf("Rate from 1 to 10 the demand for %s in the %s market. Number only.", productType, market)
}

func artistRecognitionPrompt(artist string) string {
	return fmt.Sprintf("Is %s a known/recognized artist? Answer ONLY with 'yes' or 'no'.", artist)
}

func artistPricePrompt(artist, productType string) string {
	return fmt.Sprintf("What is the average price or typical price range for %ss by artist %s based on previous sales? Give ONLY a number or brief range in euros.", productType, artist)
}

func productValidationPrompt(productType string) string {
	return fmt.Sprintf("Is %s a valid type of artistic product? Answer ONLY with 'yes' or 'no'.", productType)
}

func materialCheckPrompt(productType string, materials []string) string {
	return fmt.Sprintf("Is this combination of materials: %s realistic/feasible for creating a %s? Answer ONLY with 'yes' or 'no'.", strings.Join(materials, ", "), productType)
}

func materialAdvicePrompt(productType string) string {
	return fmt.Sprintf(`For an artistic product of type '%s', list the most commonly used materials.
Answer ONLY in the following JSON format:
{
    "canvas": ["..."],
    "other": ["..."]
}
Do not include any explanation or text outside the JSON.`, productType)
}

// priceAdvicePrompt builds the final advisory query with the full product
// context, including only the optional details that are present.
func priceAdvicePrompt(desc *model.ProductDescription, dimensions string, weightInfo string, isDigital bool) string {
	var details []string
	if desc.Resolution != model.ResolutionNone {
		details = append(details, fmt.Sprintf("resolution: %s", desc.Resolution))
	}
	if desc.DurationMinutes > 0 {
		details = append(details, fmt.Sprintf("duration: %g minutes", desc.DurationMinutes))
	}
	if weightInfo != "" {
		details = append(details, fmt.Sprintf("weight: %s", weightInfo))
	}
	if isDigital {
		details = append(details, "digital format")
	}

	detailsText := ""
	if len(details) > 0 {
		detailsText = ", " + strings.Join(details, ", ")
	}

	return fmt.Sprintf(`As artist %s selling a %s in the %s market, with materials: %s,
dimensions: %s%s.
Give ONLY a recommended price range in euros, as a single number or a brief range (e.g., '1200-1500').`,
		desc.Artist, desc.ProductType, desc.Market, strings.Join(desc.Materials, ", "), dimensions, detailsText)
}
