package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cre8worthy/appraise-cli/internal/model"
)

var (
	priceFile   string
	priceVerify bool
	priceDesc   model.ProductDescription
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Compute a recommended price for one art object",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		desc := priceDesc
		if priceFile != "" {
			raw, err := os.ReadFile(priceFile)
			if err != nil {
				return eris.Wrapf(err, "price: read %s", priceFile)
			}
			if err := yaml.Unmarshal(raw, &desc); err != nil {
				return eris.Wrapf(err, "price: parse %s", priceFile)
			}
		}

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		if priceVerify {
			ok, err := e.Engine.VerifyArtisticProduct(ctx, desc.ProductType)
			if err != nil {
				zap.L().Warn("product type verification unavailable", zap.Error(err))
			} else if !ok {
				return eris.Errorf("price: %q is not recognized as a valid artistic product", desc.ProductType)
			}
		}

		out, err := e.Engine.ComputePrice(ctx, &desc)
		if err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				return eris.Errorf("price: refused: %s (%s)", verr.Field, verr.Reason)
			}
			return err
		}

		res := out.Result
		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.AppendRows([]table.Row{
			{"Recommended Price", fmt.Sprintf("%.2f €", res.Price)},
			{"Market Demand", fmt.Sprintf("%d/10", res.MarketDemand)},
			{"Dimensions", res.Dimensions},
			{"Materials", res.Materials},
			{"Artist Known", res.ArtistKnown},
			{"AI Recommendation", res.AdvisoryPrice},
		})
		if res.HeightUsed != "" {
			tw.AppendRow(table.Row{"Height Used", res.HeightUsed + " cm"})
		}
		if res.WeightUsed != "" {
			tw.AppendRow(table.Row{"Weight Used", res.WeightUsed + " kg"})
		}
		tw.Render()

		// Degraded persistence is a warning, not a refusal: the price above
		// is valid either way.
		for _, w := range out.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}

		return nil
	},
}

func init() {
	priceCmd.Flags().StringVar(&priceFile, "file", "", "YAML file with the product description (flags are ignored)")
	priceCmd.Flags().BoolVar(&priceVerify, "verify", false, "ask the oracle whether the product type is a valid artistic product first")

	priceCmd.Flags().StringVar(&priceDesc.ProductType, "type", "", "product type")
	priceCmd.Flags().StringVar(&priceDesc.Artist, "artist", "", "artist name")
	priceCmd.Flags().StringVar(&priceDesc.Market, "market", "", "target market")
	priceCmd.Flags().StringSliceVar(&priceDesc.Materials, "materials", nil, "selected materials")
	priceCmd.Flags().Float64Var(&priceDesc.Length, "length", 0, "length (cm, or px for digital)")
	priceCmd.Flags().Float64Var(&priceDesc.Width, "width", 0, "width (cm, or px for digital)")
	priceCmd.Flags().Float64Var(&priceDesc.Height, "height", 0, "height in cm (3D products)")
	priceCmd.Flags().Float64Var(&priceDesc.Weight, "weight", 0, "weight in kg (3D products)")
	priceCmd.Flags().StringVar((*string)(&priceDesc.Resolution), "resolution", "", "resolution tier (HD, Full HD, 2K, 4K, 8K)")
	priceCmd.Flags().Float64Var(&priceDesc.DurationMinutes, "duration", 0, "duration in minutes (video products)")
	priceCmd.Flags().Float64Var(&priceDesc.MaterialCost, "material-cost", 0, "material cost (€)")
	priceCmd.Flags().Float64Var(&priceDesc.ShippingCost, "shipping-cost", 0, "shipping cost (€)")
	priceCmd.Flags().Float64Var(&priceDesc.AdvertisingCost, "ad-cost", 0, "advertising cost (€)")
	priceCmd.Flags().Float64Var(&priceDesc.TimeSpentHours, "hours", 0, "creation time in hours")
	priceCmd.Flags().Float64Var(&priceDesc.ResolutionFactor, "resolution-factor", 0, "digital resolution premium knob (default 1.0)")

	rootCmd.AddCommand(priceCmd)
}
