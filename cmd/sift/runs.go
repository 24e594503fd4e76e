package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show extraction run history",
		Long: `Show previously recorded extraction runs, newest first.

Use --id to print the transactions captured by one run.`,
		RunE: runRuns,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().Int64("id", 0, "Show the transactions of a specific run")

	_ = viper.BindPFlag("runs.limit", cmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("runs.id", cmd.Flags().Lookup("id"))

	return cmd
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	if runID := viper.GetInt64("runs.id"); runID > 0 {
		txns, txErr := store.GetRunTransactions(ctx, runID)
		if txErr != nil {
			return txErr
		}
		if len(txns) == 0 {
			fmt.Printf("No transactions recorded for run %d\n", runID)
			return nil
		}

		fmt.Printf("%-12s %-32s %-10s %12s %-8s\n", "DATE", "DESCRIPTION", "TYPE", "AMOUNT", "STATUS")
		for _, txn := range txns {
			desc := txn.Description
			if len(desc) > 32 {
				desc = desc[:29] + "..."
			}
			fmt.Printf("%-12s %-32s %-10s %12s %-8s\n",
				txn.Date, desc, txn.Type, txn.Amount.StringFixed(2), txn.Status)
		}
		return nil
	}

	runs, err := store.ListRuns(ctx, viper.GetInt("runs.limit"))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No extraction runs recorded yet")
		return nil
	}

	fmt.Printf("%-6s %-24s %-20s %8s %8s %8s\n", "ID", "FORMAT", "EXTRACTED", "TOTAL", "VALID", "INVALID")
	for _, r := range runs {
		fmt.Printf("%-6d %-24s %-20s %8d %8d %8d\n",
			r.ID, r.BankFormat, r.ExtractedAt.Format("2006-01-02 15:04:05"),
			r.TotalTransactions, r.ValidTransactions, r.InvalidTransactions)
	}
	return nil
}
