package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/engine"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/report"
	"github.com/ledgersift/ledgersift/internal/validate"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract transactions from statement text",
		Long: `Extract structured transactions from a bank-statement text file.

The bank format is detected automatically unless --bank pins a specific
registered format. Pass "-" to read from stdin.

Examples:
  sift extract statement.txt
  sift extract statement.txt --output transactions.csv
  sift extract statement.txt --bank us_bank --json
  cat statement.txt | sift extract -`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringP("bank", "b", "", "Bank format id (bypasses detection)")
	cmd.Flags().StringP("output", "o", "", "Write transactions to a CSV file")
	cmd.Flags().Bool("json", false, "Print the full extraction result as JSON")
	cmd.Flags().Bool("no-save", false, "Do not record this run in the history database")

	_ = viper.BindPFlag("extract.bank", cmd.Flags().Lookup("bank"))
	_ = viper.BindPFlag("extract.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("extract.json", cmd.Flags().Lookup("json"))
	_ = viper.BindPFlag("extract.no_save", cmd.Flags().Lookup("no-save"))

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	bankID := viper.GetString("extract.bank")
	output := viper.GetString("extract.output")
	asJSON := viper.GetBool("extract.json")
	noSave := viper.GetBool("extract.no_save")

	text, err := readInput(args[0])
	if err != nil {
		return common.NewUserError("failed to read statement text", err)
	}

	ext := engine.NewWithConfig(loadRegistry(), validationConfig())

	var result *model.ExtractionResult
	if bankID != "" {
		result, err = ext.ExtractByBankID(text, bankID)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("unknown bank format %q", bankID), err)
		}
	} else {
		result = ext.Extract(text)
	}

	slog.Info("Extraction complete",
		"format", result.Metadata.BankFormat,
		"transactions", result.TotalTransactions,
		"valid", result.ValidTransactions,
		"invalid", result.InvalidTransactions,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))

	if !noSave {
		store, storeErr := initStore(ctx)
		if storeErr != nil {
			return fmt.Errorf("failed to open history database: %w", storeErr)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				slog.Error("Failed to close database", "error", closeErr)
			}
		}()

		runID, saveErr := store.SaveRun(ctx, result)
		if saveErr != nil {
			return fmt.Errorf("failed to save run: %w", saveErr)
		}
		slog.Info("Recorded extraction run", "run_id", runID)
	}

	if output != "" {
		writer := report.CSVWriter{IncludeSummary: true}
		if writeErr := writer.WriteToFile(output, result); writeErr != nil {
			return writeErr
		}
		slog.Info("Wrote CSV report", "path", output)
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if !result.Success {
		return common.NewUserError("no transactions extracted", nil)
	}
	return nil
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", common.ErrEmptyText
	}
	return string(data), nil
}

// validationConfig builds validator thresholds from configuration,
// starting from the defaults.
func validationConfig() validate.Config {
	cfg := validate.DefaultConfig()

	if viper.IsSet("validation.max_amount") {
		cfg.MaxAmount = decimal.NewFromFloat(viper.GetFloat64("validation.max_amount"))
	}
	if viper.IsSet("validation.balance_tolerance") {
		cfg.BalanceTolerance = decimal.NewFromFloat(viper.GetFloat64("validation.balance_tolerance"))
	}
	if viper.IsSet("validation.max_future_days") {
		cfg.MaxFutureDays = viper.GetInt("validation.max_future_days")
	}
	if viper.IsSet("validation.max_age_years") {
		cfg.MaxAgeYears = viper.GetInt("validation.max_age_years")
	}
	if viper.IsSet("validation.precision") {
		cfg.Precision = int32(viper.GetInt("validation.precision"))
	}
	cfg.AllowNegative = viper.GetBool("validation.allow_negative")

	return cfg
}
