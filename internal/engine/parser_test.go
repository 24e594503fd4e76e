package engine

import (
	"testing"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/registry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genericFormat(t *testing.T) *model.BankFormat {
	t.Helper()
	format, err := registry.Default().Lookup("generic")
	require.NoError(t, err)
	return format
}

func TestParseLine_SimplePattern(t *testing.T) {
	format := genericFormat(t)

	// "Purchase" triggers the debit keyword heuristic.
	line := "01/15/2024  Grocery Store Purchase   45.67             1954.33"
	txn, ok := ParseLine(line, format, 7)
	require.True(t, ok)

	assert.Equal(t, "2024-01-15", txn.Date)
	assert.Equal(t, "Grocery Store Purchase", txn.Description)
	require.NotNil(t, txn.Debit)
	assert.True(t, txn.Debit.Equal(decimal.NewFromFloat(45.67)))
	assert.Nil(t, txn.Credit)
	require.NotNil(t, txn.Balance)
	assert.True(t, txn.Balance.Equal(decimal.NewFromFloat(1954.33)))
	assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(-45.67)))
	assert.Equal(t, 7, txn.LineNumber)
	assert.Equal(t, line, txn.RawLine)
}

func TestParseLine_SimplePatternDefaultsToCredit(t *testing.T) {
	format := genericFormat(t)

	txn, ok := ParseLine("01/16/2024 Salary January 2500.00 4454.33", format, 1)
	require.True(t, ok)

	assert.Nil(t, txn.Debit)
	require.NotNil(t, txn.Credit)
	assert.True(t, txn.Credit.Equal(decimal.NewFromFloat(2500.00)))
	assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(2500.00)))
}

func TestParseLine_StandardPattern(t *testing.T) {
	format := genericFormat(t)

	txn, ok := ParseLine("01/15/2024 Utility Bill 120.50 0.00 1833.83", format, 3)
	require.True(t, ok)

	require.NotNil(t, txn.Debit)
	assert.True(t, txn.Debit.Equal(decimal.NewFromFloat(120.50)))
	require.NotNil(t, txn.Credit)
	require.NotNil(t, txn.Balance)
	assert.True(t, txn.Balance.Equal(decimal.NewFromFloat(1833.83)))
	// Debit wins the amount derivation when both columns are present.
	assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(-120.50)))
}

func TestParseLine_CombinedPattern(t *testing.T) {
	format := genericFormat(t)

	tests := []struct {
		name       string
		line       string
		wantDebit  bool
		wantAmount float64
	}{
		{name: "debit indicator", line: "02/01/2024 Wire Out 300.00 D 700.00", wantDebit: true, wantAmount: -300.00},
		{name: "credit indicator", line: "02/02/2024 Wire In 450.00 C 1150.00", wantDebit: false, wantAmount: 450.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, ok := ParseLine(tt.line, format, 1)
			require.True(t, ok)

			if tt.wantDebit {
				assert.NotNil(t, txn.Debit)
				assert.Nil(t, txn.Credit)
			} else {
				assert.Nil(t, txn.Debit)
				assert.NotNil(t, txn.Credit)
			}
			assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(tt.wantAmount)))
		})
	}
}

func TestParseLine_NoMatch(t *testing.T) {
	format := genericFormat(t)

	for _, line := range []string{
		"Thank you for banking with us",
		"Questions? Call 1-800-555-0100",
		"",
	} {
		_, ok := ParseLine(line, format, 1)
		assert.False(t, ok, "line %q should not parse", line)
	}
}

func TestParseLine_Idempotent(t *testing.T) {
	format := genericFormat(t)
	line := "01/15/2024 Card Purchase Store 45.67 1954.33"

	first, ok := ParseLine(line, format, 4)
	require.True(t, ok)
	second, ok := ParseLine(line, format, 4)
	require.True(t, ok)

	// Identical field for field, excluding the generated id.
	assert.Equal(t, first.Date, second.Date)
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.Type, second.Type)
	assert.True(t, first.Amount.Equal(second.Amount))
	require.NotNil(t, first.Debit)
	require.NotNil(t, second.Debit)
	assert.True(t, first.Debit.Equal(*second.Debit))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestParseLine_ExactlyOneSide(t *testing.T) {
	format := genericFormat(t)

	lines := []string{
		"01/15/2024 Grocery Store Purchase 45.67 1954.33",
		"01/16/2024 Incoming Donation 100.00 2054.33",
		"02/01/2024 Wire Out 300.00 D 700.00",
		"02/02/2024 Wire In 450.00 C 1150.00",
	}

	for _, line := range lines {
		txn, ok := ParseLine(line, format, 1)
		require.True(t, ok, "line %q", line)

		oneSide := (txn.Debit != nil) != (txn.Credit != nil)
		assert.True(t, oneSide, "line %q should set exactly one of debit/credit", line)

		switch {
		case txn.Debit != nil:
			assert.True(t, txn.Amount.Equal(txn.Debit.Neg()), "amount should be -debit")
		case txn.Credit != nil:
			assert.True(t, txn.Amount.Equal(*txn.Credit), "amount should be +credit")
		}
	}
}

func TestParseLine_Categorizes(t *testing.T) {
	format := genericFormat(t)

	tests := []struct {
		line string
		want string
	}{
		{line: "01/15/2024 Monthly Service Fee 12.00 1942.33", want: "FEE"},
		{line: "01/16/2024 ATM Cash 60.00 1882.33", want: "ATM"},
		{line: "01/17/2024 Salary Income 2500.00 4382.33", want: "CREDIT"},
	}

	for _, tt := range tests {
		txn, ok := ParseLine(tt.line, format, 1)
		require.True(t, ok, "line %q", tt.line)
		assert.Equal(t, tt.want, txn.Type, "line %q", tt.line)
	}
}
