package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/spf13/cobra"
)

var rebuildCategoryIDs []int64

// closingBalanceCmd groups closing balance maintenance.
var closingBalanceCmd = &cobra.Command{
	Use:   "closing-balance",
	Short: "Maintain closing balance snapshots",
}

// rebuildCmd recomputes snapshots from the posted legs.
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute the closing balance snapshots of categories from their legs",
	Long: `Recompute every closing balance snapshot of the given categories from
their posted line items. Use it after a bulk import or to repair drift.

Example:
  ledgerctl closing-balance rebuild --category 12 --category 15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		repos, closeDB, err := openRepositories(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		container := services.NewServiceContainer(cfg, repos)
		for _, id := range rebuildCategoryIDs {
			n, err := container.ClosingBalance.RebuildClosingBalances(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("rebuild category %d: %w", id, err)
			}
			slog.Debug("Rebuilt closing balances", "category_id", id, "snapshots", n)
			fmt.Fprintf(cmd.OutOrStdout(), "category %d: %d snapshots\n", id, n)
		}
		return nil
	},
}

func init() {
	rebuildCmd.Flags().Int64SliceVar(&rebuildCategoryIDs, "category", nil, "category id to rebuild (repeatable)")
	_ = rebuildCmd.MarkFlagRequired("category")
	closingBalanceCmd.AddCommand(rebuildCmd)
}
