package registry

import (
	"regexp"
	"sync"

	"github.com/ledgersift/ledgersift/internal/model"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the built-in format registry. The registry is built at
// most once; concurrent first callers converge on a single load and all
// subsequent reads are lock-free.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := New(defaultFormats())
		if err != nil {
			// The built-in table is a compile-time constant; failing to
			// build it is a programming error.
			panic(err)
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// defaultFormats returns the built-in bank format definitions: a generic
// fallback plus two reference formats.
func defaultFormats() []model.BankFormat {
	return []model.BankFormat{
		{
			BankID:   "generic",
			BankName: "Generic Format",
			Country:  "Universal",
			Patterns: []model.LinePattern{
				{
					Name: "standard",
					Kind: model.PatternStandard,
					// Date Description Debit Credit Balance
					Regex: regexp.MustCompile(`^(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})\s+(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`),
				},
				{
					Name: "simple",
					Kind: model.PatternSimple,
					// Date Description Amount Balance
					Regex: regexp.MustCompile(`^(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})\s+(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`),
				},
				{
					Name: "combined",
					Kind: model.PatternCombined,
					// Date Description Amount D/C Balance
					Regex: regexp.MustCompile(`^(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})\s+(.+?)\s+([\d,]+\.\d{2})\s+([DC])\s+([\d,]+\.\d{2})\s*$`),
				},
			},
			DateFormat:         "MM/DD/YYYY",
			DecimalSeparator:   ".",
			ThousandsSeparator: ",",
			AmountPosition:     model.AmountSeparate,
			BalanceIncluded:    true,
		},
		{
			BankID:   "us_bank",
			BankName: "US Bank Format",
			Country:  "US",
			Patterns: []model.LinePattern{
				{
					Name:  "standard",
					Kind:  model.PatternStandard,
					Regex: regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([\d,]+\.\d{2})?\s*([\d,]+\.\d{2})?\s+([\d,]+\.\d{2})\s*$`),
				},
			},
			DateFormat:         "MM/DD/YYYY",
			DecimalSeparator:   ".",
			ThousandsSeparator: ",",
			AmountPosition:     model.AmountSeparate,
			BalanceIncluded:    true,
		},
		{
			BankID:   "ph_bank",
			BankName: "Philippine Bank Format",
			Country:  "PH",
			Patterns: []model.LinePattern{
				{
					Name:  "standard",
					Kind:  model.PatternStandard,
					Regex: regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([\d,]+\.\d{2})?\s*([\d,]+\.\d{2})?\s+([\d,]+\.\d{2})\s*$`),
				},
				{
					Name: "bpi",
					Kind: model.PatternStandard,
					// Fixed 40-character description column
					Regex: regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.{40})\s+([\d,]+\.\d{2})?\s*([\d,]+\.\d{2})?\s+([\d,]+\.\d{2})\s*$`),
				},
			},
			DateFormat:         "MM/DD/YYYY",
			DecimalSeparator:   ".",
			ThousandsSeparator: ",",
			AmountPosition:     model.AmountSeparate,
			BalanceIncluded:    true,
		},
	}
}
