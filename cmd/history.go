package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"

	"github.com/cre8worthy/appraise-cli/internal/ledger"
)

var historyExportXLSX string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Review past calculations from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := ledger.NewCSV(cfg.Ledger.DataFile).Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		if historyExportXLSX != "" {
			if err := exportXLSX(historyExportXLSX, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", len(rows), historyExportXLSX)
			return nil
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		header := make(table.Row, len(ledger.CanonicalHeader))
		for i, h := range ledger.CanonicalHeader {
			header[i] = h
		}
		tw.AppendHeader(header)
		for _, r := range rows {
			tw.AppendRow(calculationTableRow(r))
		}
		tw.Render()

		count, avg := historySummary(rows)
		fmt.Fprintf(cmd.OutOrStdout(), "%d calculations, average price %.2f €\n", count, avg)
		return nil
	},
}

func calculationTableRow(r ledger.CalculationRow) table.Row {
	return table.Row{
		r.Date, r.Artist, r.Market, r.ProductType, r.Materials,
		r.Length, r.Width, r.Height, r.Weight,
		r.MaterialCost, r.ShippingCost, r.AdvertisingCost,
		r.CreationTime, r.FinalPrice, r.MarketDemand, r.AdvisoryPrice,
	}
}

// historySummary computes the footer stats. Rows with unparseable prices
// (hand-edited files) are skipped.
func historySummary(rows []ledger.CalculationRow) (int, float64) {
	sum := 0.0
	count := 0
	for _, r := range rows {
		price, err := strconv.ParseFloat(r.FinalPrice, 64)
		if err != nil {
			continue
		}
		sum += price
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return count, sum / float64(count)
}

func exportXLSX(path string, rows []ledger.CalculationRow) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Calculations")
	if err != nil {
		return eris.Wrap(err, "history: add sheet")
	}

	hdr := sheet.AddRow()
	for _, h := range ledger.CanonicalHeader {
		hdr.AddCell().SetString(h)
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, cell := range calculationTableRow(r) {
			row.AddCell().SetString(cell.(string))
		}
	}

	return eris.Wrapf(wb.Save(path), "history: save %s", path)
}

func init() {
	historyCmd.Flags().StringVar(&historyExportXLSX, "export-xlsx", "", "write the snapshot to an xlsx file instead of printing")
	rootCmd.AddCommand(historyCmd)
}
