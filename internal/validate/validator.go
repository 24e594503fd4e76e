// Package validate applies field- and record-level business rules to
// extracted transactions, producing blocking errors and non-blocking
// warnings with severity levels.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/shopspring/decimal"
)

// Config holds the validator's tunable thresholds.
type Config struct {
	// MaxAmount is the ceiling above which an absolute amount is warned
	// about (never rejected).
	MaxAmount decimal.Decimal
	// BalanceTolerance is the largest acceptable gap between a stated
	// balance and the computed one. Statements legitimately round, so
	// mismatches within the tolerance are ignored.
	BalanceTolerance decimal.Decimal
	// MaxFutureDays is how far in the future a transaction date may be
	// before it is an error.
	MaxFutureDays int
	// MaxAgeYears is how old a transaction date may be before it draws a
	// warning.
	MaxAgeYears int
	// Precision is the decimal precision amounts are rounded to for output.
	Precision int32
	// AllowNegative permits negative debit/credit values, for callers that
	// know their source emits them.
	AllowNegative bool
}

// DefaultConfig returns the default validation thresholds.
func DefaultConfig() Config {
	return Config{
		MaxAmount:        decimal.NewFromInt(1_000_000),
		BalanceTolerance: decimal.NewFromFloat(0.02),
		MaxFutureDays:    1,
		MaxAgeYears:      10,
		Precision:        2,
	}
}

// Validator checks transactions against the configured rules.
type Validator struct {
	now func() time.Time
	cfg Config
}

// New creates a validator with the given configuration.
func New(cfg Config) *Validator {
	return &Validator{cfg: cfg, now: time.Now}
}

// NewAt creates a validator whose date rules are evaluated relative to the
// given clock. Used by tests.
func NewAt(cfg Config, now func() time.Time) *Validator {
	return &Validator{cfg: cfg, now: now}
}

// ValidateTransaction applies all field and record rules to one
// transaction, updating its processing status and returning the findings.
// Errors block (the transaction counts as invalid); warnings do not.
func (v *Validator) ValidateTransaction(txn *model.Transaction) []model.Finding {
	var findings []model.Finding

	findings = append(findings, v.validateDate(txn)...)
	findings = append(findings, v.validateAmount(txn)...)
	findings = append(findings, v.validateDescription(txn)...)

	v.roundForOutput(txn)

	return findings
}

func (v *Validator) validateDate(txn *model.Transaction) []model.Finding {
	if txn.Date == "" {
		f := model.NewFinding(model.CodeMissingDate, "transaction has no date", model.SeverityHigh)
		txn.MarkError(f.Message)
		return []model.Finding{f.WithContext("line", txn.LineNumber)}
	}

	date, ok := txn.ParsedDate()
	if !ok {
		f := model.NewFinding(model.CodeInvalidDate,
			fmt.Sprintf("date %q could not be normalized", txn.Date), model.SeverityHigh)
		txn.MarkError(f.Message)
		return []model.Finding{f.WithContext("line", txn.LineNumber).WithContext("raw_date", txn.Date)}
	}

	var findings []model.Finding
	now := v.now()

	if date.After(now.AddDate(0, 0, v.cfg.MaxFutureDays)) {
		f := model.NewFinding(model.CodeFutureDate,
			fmt.Sprintf("date %s is more than %d days in the future", txn.Date, v.cfg.MaxFutureDays),
			model.SeverityHigh)
		txn.MarkError(f.Message)
		findings = append(findings, f.WithContext("line", txn.LineNumber))
	}

	if date.Before(now.AddDate(-v.cfg.MaxAgeYears, 0, 0)) {
		f := model.NewFinding(model.CodeStaleDate,
			fmt.Sprintf("date %s is more than %d years old", txn.Date, v.cfg.MaxAgeYears),
			model.SeverityMedium)
		txn.MarkWarning(f.Message)
		findings = append(findings, f.WithContext("line", txn.LineNumber))
	}

	return findings
}

func (v *Validator) validateAmount(txn *model.Transaction) []model.Finding {
	if txn.Debit == nil && txn.Credit == nil {
		f := model.NewFinding(model.CodeMissingAmount,
			"transaction must have a debit or credit amount", model.SeverityHigh)
		txn.MarkError(f.Message)
		return []model.Finding{f.WithContext("line", txn.LineNumber)}
	}

	var findings []model.Finding

	if !v.cfg.AllowNegative {
		if f, bad := v.negativeCheck(txn, "debit", txn.Debit); bad {
			findings = append(findings, f)
		}
		if f, bad := v.negativeCheck(txn, "credit", txn.Credit); bad {
			findings = append(findings, f)
		}
	}

	if txn.Amount.Abs().GreaterThan(v.cfg.MaxAmount) {
		f := model.NewFinding(model.CodeAmountExceedsLimit,
			fmt.Sprintf("amount %s exceeds the configured ceiling %s", txn.Amount, v.cfg.MaxAmount),
			model.SeverityMedium)
		txn.MarkWarning(f.Message)
		findings = append(findings, f.
			WithContext("line", txn.LineNumber).
			WithContext("raw_amount", txn.Amount.String()))
	}

	return findings
}

func (v *Validator) negativeCheck(txn *model.Transaction, side string, value *decimal.Decimal) (model.Finding, bool) {
	if value == nil || !value.IsNegative() {
		return model.Finding{}, false
	}
	f := model.NewFinding(model.CodeNegativeAmount,
		fmt.Sprintf("negative %s amount %s", side, value), model.SeverityHigh)
	txn.MarkError(f.Message)
	return f.WithContext("line", txn.LineNumber).WithContext("raw_amount", value.String()), true
}

// suspiciousChars in a description usually mean OCR noise or markup leakage.
const suspiciousChars = "<>{}"

func (v *Validator) validateDescription(txn *model.Transaction) []model.Finding {
	if txn.Description == "" {
		f := model.NewFinding(model.CodeEmptyDescription, "transaction has no description", model.SeverityLow)
		// An empty description only blocks when the record is otherwise
		// incomplete too.
		if _, dateOK := txn.ParsedDate(); dateOK && (txn.Debit != nil || txn.Credit != nil) {
			txn.MarkWarning(f.Message)
		} else {
			f.Severity = model.SeverityHigh
			txn.MarkError(f.Message)
		}
		return []model.Finding{f.WithContext("line", txn.LineNumber)}
	}

	if strings.ContainsAny(txn.Description, suspiciousChars) {
		f := model.NewFinding(model.CodeSuspiciousText,
			"description contains control characters", model.SeverityMedium)
		txn.MarkWarning(f.Message)
		return []model.Finding{f.
			WithContext("line", txn.LineNumber).
			WithContext("description", txn.Description)}
	}

	return nil
}

// roundForOutput rounds monetary fields to the configured precision. The
// raw parsed values have already been used for balance arithmetic and are
// carried in finding contexts where they matter.
func (v *Validator) roundForOutput(txn *model.Transaction) {
	txn.Amount = txn.Amount.Round(v.cfg.Precision)
	if txn.Debit != nil {
		rounded := txn.Debit.Round(v.cfg.Precision)
		txn.Debit = &rounded
	}
	if txn.Credit != nil {
		rounded := txn.Credit.Round(v.cfg.Precision)
		txn.Credit = &rounded
	}
	if txn.Balance != nil {
		rounded := txn.Balance.Round(v.cfg.Precision)
		txn.Balance = &rounded
	}
}

// CheckBalanceConsistency verifies that stated line-level balances agree
// with transaction amounts. For each adjacent pair both carrying a balance,
// expected = previous balance + current amount; a gap beyond the tolerance
// draws exactly one MEDIUM warning referencing the pair's index. Never an
// error: statements legitimately round.
func (v *Validator) CheckBalanceConsistency(txns []model.Transaction) []model.Finding {
	var findings []model.Finding

	for i := 1; i < len(txns); i++ {
		prev, curr := &txns[i-1], &txns[i]
		if prev.Balance == nil || curr.Balance == nil {
			continue
		}

		expected := prev.Balance.Add(curr.Amount)
		diff := expected.Sub(*curr.Balance).Abs()
		if diff.LessThanOrEqual(v.cfg.BalanceTolerance) {
			continue
		}

		f := model.NewFinding(model.CodeBalanceMismatch,
			fmt.Sprintf("balance mismatch at transaction %d: expected %s, stated %s",
				i, expected, curr.Balance), model.SeverityMedium)
		curr.MarkWarning(f.Message)
		findings = append(findings, f.
			WithContext("index", i).
			WithContext("expected", expected.String()).
			WithContext("stated", curr.Balance.String()))
	}

	return findings
}
