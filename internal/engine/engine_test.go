package engine

import (
	"regexp"
	"strings"
	"testing"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/registry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noBalanceRegistry registers a format whose lines carry no balance column,
// so running balances must be reconstructed from the opening balance.
func noBalanceRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	format := model.BankFormat{
		BankID:   "nb_bank",
		BankName: "No Balance Bank",
		Country:  "US",
		Patterns: []model.LinePattern{{
			Name:  "simple",
			Kind:  model.PatternSimple,
			Regex: regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([\d,]+\.\d{2})(?:\s+([\d,]+\.\d{2}))?\s*$`),
		}},
		DateFormat:         "MM/DD/YYYY",
		DecimalSeparator:   ".",
		ThousandsSeparator: ",",
		AmountPosition:     model.AmountSeparate,
	}
	reg, err := registry.New([]model.BankFormat{format})
	require.NoError(t, err)
	return reg
}

func TestExtract_BackfillsRunningBalance(t *testing.T) {
	text := strings.Join([]string{
		"Opening Balance: 500.00",
		"01/02/2024 ATM Withdrawal 20.00",
		"01/03/2024 Payroll 100.00",
		"01/04/2024 Service Fee 5.00",
	}, "\n")

	result := New(noBalanceRegistry(t)).Extract(text)

	require.True(t, result.Success)
	require.Len(t, result.Transactions, 3)
	require.NotNil(t, result.OpeningBalance)
	assert.True(t, result.OpeningBalance.Equal(decimal.RequireFromString("500.00")))

	want := []string{"480", "580", "575"}
	for i, w := range want {
		balance := result.Transactions[i].Balance
		require.NotNil(t, balance, "transaction %d", i)
		assert.True(t, balance.Equal(decimal.RequireFromString(w)),
			"transaction %d: got %s, want %s", i, balance, w)
	}

	assert.True(t, result.TotalDebits.Equal(decimal.RequireFromString("25.00")), "debits: %s", result.TotalDebits)
	assert.True(t, result.TotalCredits.Equal(decimal.RequireFromString("100.00")), "credits: %s", result.TotalCredits)
	assert.Equal(t, 3, result.ValidTransactions)
	assert.Equal(t, 0, result.InvalidTransactions)
	assert.Empty(t, result.Errors)
}

func TestExtract_FlagsBalanceMismatchAndDuplicate(t *testing.T) {
	text := strings.Join([]string{
		"Date Description Debit Credit Balance",
		"01/15/2024 Card Purchase Coffee 4.50 995.50",
		"01/15/2024 Card Purchase Coffee 4.50 991.00",
		"01/16/2024 Refund 10.00 1101.00",
	}, "\n")

	result := New(registry.Default()).Extract(text)

	require.True(t, result.Success)
	require.Len(t, result.Transactions, 3)
	assert.Equal(t, "generic", result.BankFormat.BankID)

	var duplicates, mismatches []model.Finding
	for _, w := range result.Warnings {
		switch w.Code {
		case model.CodeDuplicateTransaction:
			duplicates = append(duplicates, w)
		case model.CodeBalanceMismatch:
			mismatches = append(mismatches, w)
		}
	}

	require.Len(t, duplicates, 1)
	assert.Equal(t, 1, duplicates[0].Context["index"])
	assert.Equal(t, 0, duplicates[0].Context["first_index"])

	require.Len(t, mismatches, 1)
	assert.Equal(t, 2, mismatches[0].Context["index"])

	// Warnings do not make transactions invalid.
	assert.Equal(t, 3, result.ValidTransactions)
	assert.Equal(t, 0, result.InvalidTransactions)
	assert.Empty(t, result.Errors)
}

func TestExtract_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n   \n"} {
		result := New(registry.Default()).Extract(text)

		assert.False(t, result.Success)
		assert.Empty(t, result.Transactions)
		assert.Empty(t, result.Errors)

		found := false
		for _, w := range result.Warnings {
			if w.Code == model.CodeNoTransactions {
				found = true
			}
		}
		assert.True(t, found, "expected a NO_TRANSACTIONS warning")
	}
}

func TestExtract_NoRegistryFails(t *testing.T) {
	result := (&Extractor{}).Extract("01/15/2024 Something 1.00 2.00")

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.CodeUnknownFormat, result.Errors[0].Code)
	assert.Equal(t, model.SeverityCritical, result.Errors[0].Severity)
	assert.Empty(t, result.Transactions)
}

func TestExtractByBankID(t *testing.T) {
	ext := New(registry.Default())

	t.Run("unknown id", func(t *testing.T) {
		_, err := ext.ExtractByBankID("whatever", "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrFormatNotFound)
	})

	t.Run("known id bypasses detection", func(t *testing.T) {
		result, err := ext.ExtractByBankID("01/15/2024 Deposit 100.00 1100.00", "us_bank")
		require.NoError(t, err)
		assert.Equal(t, "us_bank", result.BankFormat.BankID)
	})
}

func TestExtract_RetainsRecordLevelErrors(t *testing.T) {
	text := strings.Join([]string{
		"01/15/2024 Coffee Shop 4.50 995.50",
		"01/15/2099 Coffee Shop 9.00 1004.50",
	}, "\n")

	result := New(registry.Default()).Extract(text)

	// The run itself still succeeds: record errors never abort extraction.
	require.True(t, result.Success)
	require.Len(t, result.Transactions, 2)

	assert.Equal(t, model.StatusValid, result.Transactions[0].Status)
	assert.Equal(t, model.StatusError, result.Transactions[1].Status)
	assert.NotEmpty(t, result.Transactions[1].ErrorMessages)

	assert.Equal(t, 1, result.ValidTransactions)
	assert.Equal(t, 1, result.InvalidTransactions)

	found := false
	for _, e := range result.Errors {
		if e.Code == model.CodeFutureDate {
			found = true
		}
	}
	assert.True(t, found, "expected a FUTURE_DATE error")
}

func TestExtract_Metadata(t *testing.T) {
	text := "Opening Balance: 500.00\n01/02/2024 ATM Withdrawal 20.00\n"
	result := New(noBalanceRegistry(t)).Extract(text)

	assert.Equal(t, "No Balance Bank", result.Metadata.BankFormat)
	assert.Equal(t, 3, result.Metadata.LinesProcessed)
	assert.False(t, result.Metadata.ExtractedAt.IsZero())
}
