package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/shopspring/decimal"
)

// RunSummary is the list-view of a persisted extraction run.
type RunSummary struct {
	ExtractedAt         time.Time
	BankFormat          string
	ID                  int64
	TotalTransactions   int
	ValidTransactions   int
	InvalidTransactions int
	Success             bool
}

// SaveRun persists an extraction result with its transactions and findings.
// Returns the new run id.
func (s *Store) SaveRun(ctx context.Context, result *model.ExtractionResult) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if result == nil {
		return 0, fmt.Errorf("%w: result", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	bankFormat := result.Metadata.BankFormat
	if bankFormat == "" && result.BankFormat != nil {
		bankFormat = result.BankFormat.BankName
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO extraction_runs (
			bank_format, success, total_transactions, valid_transactions,
			invalid_transactions, opening_balance, closing_balance,
			total_debits, total_credits, lines_processed, extracted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		bankFormat,
		result.Success,
		result.TotalTransactions,
		result.ValidTransactions,
		result.InvalidTransactions,
		nullDecimal(result.OpeningBalance),
		nullDecimal(result.ClosingBalance),
		result.TotalDebits.String(),
		result.TotalCredits.String(),
		result.Metadata.LinesProcessed,
		result.Metadata.ExtractedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	if err := saveTransactionsTx(ctx, tx, runID, result.Transactions); err != nil {
		return 0, err
	}
	if err := saveFindingsTx(ctx, tx, runID, "error", result.Errors); err != nil {
		return 0, err
	}
	if err := saveFindingsTx(ctx, tx, runID, "warning", result.Warnings); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

func saveTransactionsTx(ctx context.Context, tx *sql.Tx, runID int64, txns []model.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_transactions (
			run_id, transaction_id, date, description, debit, credit,
			amount, balance, transaction_type, processing_status, notes,
			raw_line, line_number
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range txns {
		_, err := stmt.ExecContext(ctx,
			runID,
			txn.ID,
			txn.Date,
			txn.Description,
			nullDecimal(txn.Debit),
			nullDecimal(txn.Credit),
			txn.Amount.String(),
			nullDecimal(txn.Balance),
			txn.Type,
			string(txn.Status),
			txn.Notes,
			txn.RawLine,
			txn.LineNumber,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}
	return nil
}

func saveFindingsTx(ctx context.Context, tx *sql.Tx, runID int64, kind string, findings []model.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_findings (run_id, kind, code, message, severity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range findings {
		if _, err := stmt.ExecContext(ctx, runID, kind, f.Code, f.Message, string(f.Severity), f.Timestamp); err != nil {
			return fmt.Errorf("failed to insert finding %s: %w", f.Code, err)
		}
	}
	return nil
}

// ListRuns returns the most recent extraction runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bank_format, success, total_transactions,
		       valid_transactions, invalid_transactions, extracted_at
		FROM extraction_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.BankFormat, &r.Success, &r.TotalTransactions,
			&r.ValidTransactions, &r.InvalidTransactions, &r.ExtractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunTransactions returns the transactions persisted for one run, in
// statement order.
func (s *Store) GetRunTransactions(ctx context.Context, runID int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, date, description, debit, credit, amount,
		       balance, transaction_type, processing_status, notes,
		       raw_line, line_number
		FROM run_transactions
		WHERE run_id = ?
		ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var (
			txn                     model.Transaction
			debit, credit, balance  sql.NullString
			amount                  string
		)
		if err := rows.Scan(&txn.ID, &txn.Date, &txn.Description, &debit, &credit,
			&amount, &balance, &txn.Type, &txn.Status, &txn.Notes,
			&txn.RawLine, &txn.LineNumber); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount for transaction %s: %w", txn.ID, err)
		}
		txn.Amount = parsed

		if txn.Debit, err = scanDecimal(debit); err != nil {
			return nil, fmt.Errorf("corrupt debit for transaction %s: %w", txn.ID, err)
		}
		if txn.Credit, err = scanDecimal(credit); err != nil {
			return nil, fmt.Errorf("corrupt credit for transaction %s: %w", txn.ID, err)
		}
		if txn.Balance, err = scanDecimal(balance); err != nil {
			return nil, fmt.Errorf("corrupt balance for transaction %s: %w", txn.ID, err)
		}

		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
