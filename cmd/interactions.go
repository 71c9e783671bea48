package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/cre8worthy/appraise-cli/internal/ledger"
	"github.com/cre8worthy/appraise-cli/internal/model"
)

var interactionsLimit int

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Review the oracle call audit trail, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := ledger.NewSQLiteInteractions(cfg.Ledger.DBFile)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		rows, err := store.Interactions(ctx)
		if err != nil {
			return err
		}
		if interactionsLimit > 0 && len(rows) > interactionsLimit {
			rows = rows[:interactionsLimit]
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.AppendHeader(table.Row{"Timestamp", "Kind", "Prompt", "Response", "Duration"})
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Name: "Prompt", WidthMax: 48, WidthMaxEnforcer: text.WrapSoft},
			{Name: "Response", WidthMax: 48, WidthMaxEnforcer: text.WrapSoft},
		})
		for _, it := range rows {
			tw.AppendRow(interactionTableRow(it))
		}
		tw.Render()

		fmt.Fprintf(cmd.OutOrStdout(), "%d interactions\n", len(rows))
		return nil
	},
}

func interactionTableRow(it model.Interaction) table.Row {
	return table.Row{
		it.Timestamp.Format("2006-01-02 15:04:05"),
		it.Kind,
		it.Prompt,
		it.Response,
		fmt.Sprintf("%.2fs", it.Duration.Seconds()),
	}
}

func init() {
	interactionsCmd.Flags().IntVar(&interactionsLimit, "limit", 0, "show at most N interactions (0 = all)")
	rootCmd.AddCommand(interactionsCmd)
}
