package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metadata carries provenance information about an extraction run.
type Metadata struct {
	ExtractedAt    time.Time `json:"extracted_at"`
	BankFormat     string    `json:"bank_format"`
	LinesProcessed int       `json:"lines_processed"`
}

// ExtractionResult is the full output of one extraction call. It is created
// fresh per call and never mutated by the engine after return.
type ExtractionResult struct {
	OpeningBalance      *decimal.Decimal `json:"opening_balance,omitempty"`
	ClosingBalance      *decimal.Decimal `json:"closing_balance,omitempty"`
	BankFormat          *BankFormat      `json:"bank_format,omitempty"`
	Transactions        []Transaction    `json:"transactions"`
	Errors              []Finding        `json:"errors"`
	Warnings            []Finding        `json:"warnings"`
	Metadata            Metadata         `json:"metadata"`
	TotalDebits         decimal.Decimal  `json:"total_debits"`
	TotalCredits        decimal.Decimal  `json:"total_credits"`
	TotalTransactions   int              `json:"total_transactions"`
	ValidTransactions   int              `json:"valid_transactions"`
	InvalidTransactions int              `json:"invalid_transactions"`
	Success             bool             `json:"success"`
}

// NewExtractionResult returns an empty result with allocated slices so that
// consumers never see nil lists.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{
		Transactions: make([]Transaction, 0),
		Errors:       make([]Finding, 0),
		Warnings:     make([]Finding, 0),
	}
}

// AddError appends a blocking finding to the result.
func (r *ExtractionResult) AddError(f Finding) {
	r.Errors = append(r.Errors, f)
}

// AddWarning appends a non-blocking finding to the result.
func (r *ExtractionResult) AddWarning(f Finding) {
	r.Warnings = append(r.Warnings, f)
}
