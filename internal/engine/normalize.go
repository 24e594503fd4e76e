package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/shopspring/decimal"
)

// Supported raw date layouts. Two-digit day/month groups are resolved
// month-first (MM/DD/YYYY); statements from day-first locales will be
// misread, which is a known limitation of the format table rather than
// something to guess around here.
var dateLayouts = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`),  // MM/DD/YYYY
	regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`),  // MM-DD-YYYY
	regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`), // DD.MM.YYYY, read month-first
	regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`),  // already canonical
}

// NormalizeDate converts a raw date string to canonical YYYY-MM-DD.
// Input that matches none of the supported layouts is passed through
// unchanged; the validator flags it downstream. This function never fails.
func NormalizeDate(raw string) string {
	if raw == "" {
		return raw
	}

	for _, layout := range dateLayouts {
		m := layout.FindStringSubmatch(raw)
		if m == nil {
			continue
		}

		// Already YYYY-MM-DD.
		if len(m[1]) == 4 {
			return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		}

		return fmt.Sprintf("%s-%s-%s", m[3], m[1], m[2])
	}

	return raw
}

// currencyRunes are stripped from amount strings before parsing.
const currencyRunes = "$€£¥₱"

// NormalizeAmount parses a locale-formatted amount string into an exact
// decimal using the format's separator conventions. ok is false when the
// cleaned string is not numeric.
func NormalizeAmount(raw string, format *model.BankFormat) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, false
	}

	cleaned = strings.Map(func(r rune) rune {
		if strings.ContainsRune(currencyRunes, r) || r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, cleaned)

	switch format.ThousandsSeparator {
	case ",":
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case ".":
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}
