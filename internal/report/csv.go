// Package report renders extraction results for downstream consumers.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/shopspring/decimal"
)

// CSVWriter writes an extraction result as CSV.
type CSVWriter struct {
	IncludeSummary bool
}

// WriteToFile writes the result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, result *model.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return w.Write(f, result)
}

// Write writes the result in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, result *model.ExtractionResult) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeSummary {
		if result.BankFormat != nil {
			_ = writer.Write([]string{"# Bank Format", result.BankFormat.BankName})
		}
		_ = writer.Write([]string{"# Transactions", fmt.Sprintf("%d", result.TotalTransactions)})
		if result.OpeningBalance != nil {
			_ = writer.Write([]string{"# Opening Balance", result.OpeningBalance.StringFixed(2)})
		}
		if result.ClosingBalance != nil {
			_ = writer.Write([]string{"# Closing Balance", result.ClosingBalance.StringFixed(2)})
		}
		_ = writer.Write([]string{"# Total Debits", result.TotalDebits.StringFixed(2)})
		_ = writer.Write([]string{"# Total Credits", result.TotalCredits.StringFixed(2)})
	}

	header := []string{"Date", "Description", "Type", "Debit", "Credit", "Balance", "Status"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range result.Transactions {
		row := []string{
			txn.Date,
			txn.Description,
			txn.Type,
			formatAmount(txn.Debit),
			formatAmount(txn.Credit),
			formatAmount(txn.Balance),
			string(txn.Status),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return amount.StringFixed(2)
}
