// Package engine implements the transaction extraction pipeline: format
// detection, line parsing, balance reconciliation, duplicate detection,
// and validation over raw bank-statement text.
package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/registry"
	"github.com/ledgersift/ledgersift/internal/validate"
)

// stage names the steps of an extraction run.
type stage string

const (
	stageDetectingFormat     stage = "DETECTING_FORMAT"
	stageParsingLines        stage = "PARSING_LINES"
	stageReconcilingBalances stage = "RECONCILING_BALANCES"
	stageDetectingDuplicates stage = "DETECTING_DUPLICATES"
	stageValidating          stage = "VALIDATING"
	stageAggregating         stage = "AGGREGATING"
	stageDone                stage = "DONE"
	stageFailed              stage = "FAILED"
)

// Extractor orchestrates a single-pass extraction over statement text.
// It is a pure, synchronous computation: the only shared state is the
// read-only format registry, so extractors are safe to use from multiple
// goroutines.
type Extractor struct {
	registry  *registry.Registry
	validator *validate.Validator
}

// New creates an extractor with default validation thresholds.
func New(reg *registry.Registry) *Extractor {
	return NewWithConfig(reg, validate.DefaultConfig())
}

// NewWithConfig creates an extractor with custom validation thresholds.
func NewWithConfig(reg *registry.Registry, cfg validate.Config) *Extractor {
	return &Extractor{
		registry:  reg,
		validator: validate.New(cfg),
	}
}

// Registry exposes the extractor's format registry for lookup consumers.
func (e *Extractor) Registry() *registry.Registry {
	return e.registry
}

// Extract runs the full pipeline, detecting the bank format from the text.
func (e *Extractor) Extract(text string) *model.ExtractionResult {
	return e.run(text, nil)
}

// ExtractWithFormat runs the pipeline with a pre-resolved format,
// bypassing detection.
func (e *Extractor) ExtractWithFormat(text string, format *model.BankFormat) *model.ExtractionResult {
	return e.run(text, format)
}

// ExtractByBankID runs the pipeline with the registered format for bankID.
// It fails with common.ErrFormatNotFound when the id is unknown.
func (e *Extractor) ExtractByBankID(text, bankID string) (*model.ExtractionResult, error) {
	format, err := e.registry.Lookup(bankID)
	if err != nil {
		return nil, err
	}
	return e.run(text, format), nil
}

// run walks the extraction stages in order. No stage is skipped; each
// operates on the full list produced by the previous one. The only fatal
// condition is failing to resolve any format at all.
func (e *Extractor) run(text string, format *model.BankFormat) *model.ExtractionResult {
	result := model.NewExtractionResult()
	start := time.Now()

	logStage(stageDetectingFormat)
	if format == nil && e.registry != nil {
		format = DetectFormat(text, e.registry)
	}
	if format == nil {
		logStage(stageFailed)
		result.AddError(model.NewFinding(model.CodeUnknownFormat,
			"could not detect bank format", model.SeverityCritical))
		return result
	}
	result.BankFormat = format

	logStage(stageParsingLines)
	cleaned := CleanText(text)
	lines := strings.Split(cleaned, "\n")

	transactions := make([]model.Transaction, 0)
	for i, line := range lines {
		lineNumber := i + 1
		if line == "" || IsHeaderLine(line) {
			continue
		}
		txn, ok := ParseLine(line, format, lineNumber)
		if !ok {
			continue
		}
		transactions = append(transactions, txn)
	}

	logStage(stageReconcilingBalances)
	SortByDate(transactions)
	result.OpeningBalance, result.ClosingBalance = ExtractBalances(cleaned)
	BackfillBalances(transactions, result.OpeningBalance)

	logStage(stageDetectingDuplicates)
	for _, f := range validate.DetectDuplicates(transactions) {
		result.AddWarning(f)
	}

	logStage(stageValidating)
	for _, f := range e.validator.CheckBalanceConsistency(transactions) {
		result.AddWarning(f)
	}
	for i := range transactions {
		for _, f := range e.validator.ValidateTransaction(&transactions[i]) {
			if severityBlocks(f.Severity) {
				result.AddError(f)
			} else {
				result.AddWarning(f)
			}
		}
	}

	logStage(stageAggregating)
	for i := range transactions {
		txn := &transactions[i]
		if txn.Status == model.StatusError {
			result.InvalidTransactions++
		} else {
			result.ValidTransactions++
		}
		if txn.Debit != nil {
			result.TotalDebits = result.TotalDebits.Add(*txn.Debit)
		}
		if txn.Credit != nil {
			result.TotalCredits = result.TotalCredits.Add(*txn.Credit)
		}
	}

	result.Transactions = transactions
	result.TotalTransactions = len(transactions)
	result.Success = result.TotalTransactions > 0
	result.Metadata = model.Metadata{
		ExtractedAt:    time.Now().UTC(),
		LinesProcessed: len(lines),
		BankFormat:     format.BankName,
	}

	if result.TotalTransactions == 0 {
		// The text was syntactically processable but contentless; warn,
		// don't fail the call outright.
		result.AddWarning(model.NewFinding(model.CodeNoTransactions,
			"no transactions found in statement text", model.SeverityLow))
	}

	logStage(stageDone)
	slog.Debug("extraction finished",
		"format", format.BankID,
		"transactions", result.TotalTransactions,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
		"duration", time.Since(start))

	return result
}

// severityBlocks reports whether a finding belongs in the blocking errors
// list rather than the warnings list.
func severityBlocks(s model.Severity) bool {
	return s == model.SeverityHigh || s == model.SeverityCritical
}

func logStage(s stage) {
	slog.Debug("extraction stage", "stage", string(s))
}
