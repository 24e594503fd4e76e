// Package model defines the core domain models used throughout the application.
package model

import "regexp"

// PatternKind identifies the column layout a line pattern extracts.
type PatternKind int

// Pattern kind constants.
const (
	// PatternStandard extracts date, description, debit, credit, balance.
	PatternStandard PatternKind = iota
	// PatternSimple extracts date, description, a single amount, balance.
	// The amount is classified as debit or credit by a description keyword
	// heuristic.
	PatternSimple
	// PatternCombined extracts date, description, amount, an explicit D/C
	// indicator, and balance. The indicator is authoritative.
	PatternCombined
)

// String returns the pattern kind name.
func (k PatternKind) String() string {
	switch k {
	case PatternStandard:
		return "standard"
	case PatternSimple:
		return "simple"
	case PatternCombined:
		return "combined"
	}
	return "unknown"
}

// LinePattern is one positional extraction template of a bank format.
// Capture group order is fixed by Kind:
//
//	PatternStandard: date, description, debit, credit, balance
//	PatternSimple:   date, description, amount, balance
//	PatternCombined: date, description, amount, indicator, balance
type LinePattern struct {
	Regex *regexp.Regexp
	Name  string
	Kind  PatternKind
}

// AmountPosition describes how a format presents transaction amounts.
type AmountPosition string

// Amount position constants.
const (
	// AmountSeparate means the format uses separate debit and credit columns.
	AmountSeparate AmountPosition = "separate"
	// AmountSigned means the format uses a single signed amount column.
	AmountSigned AmountPosition = "signed"
)

// BankFormat describes how one bank lays out a statement transaction line,
// plus its date and number conventions. Formats are immutable once loaded
// and shared read-only across extractions.
type BankFormat struct {
	BankID             string         `json:"bank_id"`
	BankName           string         `json:"bank_name"`
	Country            string         `json:"country"`
	DateFormat         string         `json:"date_format"`
	DecimalSeparator   string         `json:"decimal_separator"`
	ThousandsSeparator string         `json:"thousands_separator"`
	AmountPosition     AmountPosition `json:"amount_position"`
	Patterns           []LinePattern  `json:"-"`
	BalanceIncluded    bool           `json:"balance_included"`
}

// BankSummary is the identity-only view of a format exposed to lookup
// consumers. Patterns are deliberately omitted.
type BankSummary struct {
	BankID   string `json:"bank_id"`
	BankName string `json:"bank_name"`
	Country  string `json:"country"`
}

// Summary returns the identity-only view of the format.
func (f *BankFormat) Summary() BankSummary {
	return BankSummary{
		BankID:   f.BankID,
		BankName: f.BankName,
		Country:  f.Country,
	}
}
