package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/shopspring/decimal"
)

// Label patterns for statement-level balances. The first match per side wins.
var (
	openingBalancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Opening\s*Balance\s*:?\s*([\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)Beginning\s*Balance\s*:?\s*([\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)Previous\s*Balance\s*:?\s*([\d,]+\.\d{2})`),
	}
	closingBalancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Closing\s*Balance\s*:?\s*([\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)Ending\s*Balance\s*:?\s*([\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)Current\s*Balance\s*:?\s*([\d,]+\.\d{2})`),
	}
)

// ExtractBalances pulls the stated opening and closing balances out of the
// statement text. Either side may be nil when no label matches.
func ExtractBalances(text string) (opening, closing *decimal.Decimal) {
	return firstBalanceMatch(text, openingBalancePatterns),
		firstBalanceMatch(text, closingBalancePatterns)
}

func firstBalanceMatch(text string, patterns []*regexp.Regexp) *decimal.Decimal {
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return &value
	}
	return nil
}

// SortByDate orders transactions chronologically. The sort is stable, so
// transactions sharing a date (and transactions whose dates never
// normalized) keep their input order.
func SortByDate(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		di, iOK := txns[i].ParsedDate()
		dj, jOK := txns[j].ParsedDate()
		if !iOK || !jOK {
			return false
		}
		return di.Before(dj)
	})
}

// balanceCalculatedNote marks balances back-filled by the reconciler rather
// than read off the statement.
const balanceCalculatedNote = " (Balance calculated)"

// BackfillBalances computes a running balance for every transaction by
// cumulative summation from the opening balance. It only applies when no
// transaction carries a line-level balance and an opening balance is known;
// when line-level balances exist, consistency checking is the validator's
// job instead. Returns true when balances were written.
func BackfillBalances(txns []model.Transaction, opening *decimal.Decimal) bool {
	if opening == nil || len(txns) == 0 {
		return false
	}

	for i := range txns {
		if txns[i].Balance != nil {
			return false
		}
	}

	running := *opening
	for i := range txns {
		running = running.Add(txns[i].Amount)
		balance := running
		txns[i].Balance = &balance
		txns[i].Notes += balanceCalculatedNote
	}
	return true
}
