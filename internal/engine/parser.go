package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgersift/ledgersift/internal/classify"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/shopspring/decimal"
)

// ParseLine applies a format's line patterns to one statement line.
// Patterns are tried in declaration order and the first match wins;
// patterns within a format are mutually exclusive by construction.
// A line matching no pattern returns ok=false, which is not an error:
// most statement lines are non-transactional prose.
func ParseLine(line string, format *model.BankFormat, lineNumber int) (model.Transaction, bool) {
	for _, pattern := range format.Patterns {
		m := pattern.Regex.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		txn := model.Transaction{
			ID:         newTransactionID(lineNumber),
			RawLine:    line,
			LineNumber: lineNumber,
			Status:     model.StatusValid,
		}

		ok := false
		switch pattern.Kind {
		case model.PatternStandard:
			ok = extractStandard(&txn, m, format)
		case model.PatternSimple:
			ok = extractSimple(&txn, m, format)
		case model.PatternCombined:
			ok = extractCombined(&txn, m, format)
		}
		if !ok {
			continue
		}

		deriveAmount(&txn)
		txn.Type = classify.Categorize(txn.Description, txn.Type)

		return txn, true
	}

	return model.Transaction{}, false
}

// extractStandard fills fields from a date/description/debit/credit/balance
// match. Debit and credit columns may be optional groups; an absent group
// maps to nil and the validator decides whether that is acceptable.
func extractStandard(txn *model.Transaction, m []string, format *model.BankFormat) bool {
	txn.Date = NormalizeDate(m[1])
	txn.Description = trimField(m[2])
	txn.Debit = optionalAmount(m[3], format)
	txn.Credit = optionalAmount(m[4], format)
	txn.Balance = optionalAmount(m[5], format)
	return true
}

// extractSimple fills fields from a date/description/amount/balance match.
// The single amount column is classified as debit or credit by the
// description keyword heuristic; absence of any outflow keyword defaults
// to credit.
func extractSimple(txn *model.Transaction, m []string, format *model.BankFormat) bool {
	amount, ok := NormalizeAmount(m[3], format)
	if !ok {
		// Required amount did not parse: treat the line as non-transactional.
		return false
	}

	txn.Date = NormalizeDate(m[1])
	txn.Description = trimField(m[2])
	if classify.IsDebitDescription(txn.Description) {
		txn.Debit = &amount
	} else {
		txn.Credit = &amount
	}
	txn.Balance = optionalAmount(m[4], format)
	return true
}

// extractCombined fills fields from a date/description/amount/indicator/
// balance match. The explicit D/C indicator is authoritative.
func extractCombined(txn *model.Transaction, m []string, format *model.BankFormat) bool {
	amount, ok := NormalizeAmount(m[3], format)
	if !ok {
		return false
	}

	txn.Date = NormalizeDate(m[1])
	txn.Description = trimField(m[2])
	if m[4] == "D" {
		txn.Debit = &amount
	} else {
		txn.Credit = &amount
	}
	txn.Balance = optionalAmount(m[5], format)
	return true
}

// deriveAmount sets the signed net amount and the base transaction type
// from whichever of debit/credit is present.
func deriveAmount(txn *model.Transaction) {
	switch {
	case txn.Debit != nil:
		txn.Amount = txn.Debit.Abs().Neg()
		txn.Type = model.TypeDebit
	case txn.Credit != nil:
		txn.Amount = txn.Credit.Abs()
		txn.Type = model.TypeCredit
	}
}

func optionalAmount(group string, format *model.BankFormat) *decimal.Decimal {
	if group == "" {
		return nil
	}
	amount, ok := NormalizeAmount(group, format)
	if !ok {
		return nil
	}
	return &amount
}

func trimField(s string) string {
	return strings.TrimSpace(s)
}

func newTransactionID(lineNumber int) string {
	return fmt.Sprintf("txn_%d_%s", lineNumber, uuid.NewString()[:8])
}
