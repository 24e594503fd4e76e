package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessingStatus indicates how a transaction fared during validation.
type ProcessingStatus string

// Processing status constants.
const (
	StatusValid   ProcessingStatus = "VALID"
	StatusWarning ProcessingStatus = "WARNING"
	StatusError   ProcessingStatus = "ERROR"
)

// Base transaction types assigned before categorization.
const (
	TypeDebit  = "DEBIT"
	TypeCredit = "CREDIT"
)

// Transaction represents a single financial transaction extracted from a
// statement line. Exactly one of Debit/Credit is set for a successfully
// parsed transaction; Amount is derived as -debit or +credit and never set
// independently.
type Transaction struct {
	Debit         *decimal.Decimal `json:"debit,omitempty"`
	Credit        *decimal.Decimal `json:"credit,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	ID            string           `json:"transaction_id"`
	Date          string           `json:"date"` // canonical YYYY-MM-DD when parseable
	Description   string           `json:"description"`
	Type          string           `json:"transaction_type"`
	Status        ProcessingStatus `json:"processing_status"`
	Notes         string           `json:"notes,omitempty"`
	RawLine       string           `json:"raw_line"`
	ErrorMessages []string         `json:"error_messages,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	LineNumber    int              `json:"line_number"`
}

// ParsedDate returns the transaction date as a time.Time.
// ok is false when the date is not in canonical form.
func (t *Transaction) ParsedDate() (time.Time, bool) {
	d, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// DuplicateKey builds the tuple used for duplicate detection: exact date,
// amount, and description.
func (t *Transaction) DuplicateKey() string {
	return t.Date + "|" + t.Amount.String() + "|" + t.Description
}

// MarkWarning downgrades a VALID transaction to WARNING and records the
// message. An existing ERROR status is never overwritten.
func (t *Transaction) MarkWarning(msg string) {
	if t.Status != StatusError {
		t.Status = StatusWarning
	}
	t.ErrorMessages = append(t.ErrorMessages, msg)
}

// MarkError sets the transaction status to ERROR and records the message.
func (t *Transaction) MarkError(msg string) {
	t.Status = StatusError
	t.ErrorMessages = append(t.ErrorMessages, msg)
}
