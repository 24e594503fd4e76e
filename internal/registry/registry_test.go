package registry

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFormat(id string) model.BankFormat {
	return model.BankFormat{
		BankID:   id,
		BankName: id + " bank",
		Country:  "US",
		Patterns: []model.LinePattern{{
			Name:  "simple",
			Kind:  model.PatternSimple,
			Regex: regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`),
		}},
	}
}

func TestNew(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		reg, err := New([]model.BankFormat{testFormat("alpha"), testFormat("beta")})
		require.NoError(t, err)
		assert.Equal(t, 2, reg.Len())
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, common.ErrNoFormats)
	})

	t.Run("missing bank id", func(t *testing.T) {
		f := testFormat("")
		_, err := New([]model.BankFormat{f})
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("no patterns", func(t *testing.T) {
		f := testFormat("alpha")
		f.Patterns = nil
		_, err := New([]model.BankFormat{f})
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("duplicate bank id", func(t *testing.T) {
		_, err := New([]model.BankFormat{testFormat("alpha"), testFormat("alpha")})
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLookup(t *testing.T) {
	reg, err := New([]model.BankFormat{testFormat("alpha"), testFormat("beta")})
	require.NoError(t, err)

	format, err := reg.Lookup("beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", format.BankID)

	_, err = reg.Lookup("gamma")
	assert.ErrorIs(t, err, common.ErrFormatNotFound)
}

func TestGeneric(t *testing.T) {
	t.Run("prefers the generic id", func(t *testing.T) {
		reg, err := New([]model.BankFormat{testFormat("alpha"), testFormat("generic")})
		require.NoError(t, err)
		assert.Equal(t, "generic", reg.Generic().BankID)
	})

	t.Run("falls back to the first format", func(t *testing.T) {
		reg, err := New([]model.BankFormat{testFormat("alpha"), testFormat("beta")})
		require.NoError(t, err)
		assert.Equal(t, "alpha", reg.Generic().BankID)
	})
}

func TestSummaries(t *testing.T) {
	reg, err := New([]model.BankFormat{testFormat("alpha")})
	require.NoError(t, err)

	summaries := reg.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, "alpha", summaries[0].BankID)
	assert.Equal(t, "alpha bank", summaries[0].BankName)
	assert.Equal(t, "US", summaries[0].Country)
}

func TestDefault(t *testing.T) {
	reg := Default()

	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, "generic", reg.Generic().BankID)

	for _, id := range []string{"generic", "us_bank", "ph_bank"} {
		format, err := reg.Lookup(id)
		require.NoError(t, err, id)
		assert.NotEmpty(t, format.Patterns, id)
	}

	// Built-in registry is a shared singleton.
	assert.Same(t, reg, Default())
}

const formatConfigJSON = `{
  "formats": [
    {
      "bank_id": "custom_bank",
      "bank_name": "Custom Bank",
      "country": "US",
      "date_format": "MM/DD/YYYY",
      "decimal_separator": ".",
      "thousands_separator": ",",
      "patterns": [
        {
          "kind": "simple",
          "regex": "^(\\d{2}/\\d{2}/\\d{4})\\s+(.+?)\\s+([\\d,]+\\.\\d{2})\\s+([\\d,]+\\.\\d{2})\\s*$"
        }
      ],
      "balance_included": true
    }
  ]
}`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formats.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		reg, err := Load(writeConfig(t, formatConfigJSON))
		require.NoError(t, err)

		format, err := reg.Lookup("custom_bank")
		require.NoError(t, err)
		assert.Equal(t, "Custom Bank", format.BankName)
		require.Len(t, format.Patterns, 1)
		assert.Equal(t, model.PatternSimple, format.Patterns[0].Kind)
		// Unnamed patterns are named after their kind.
		assert.Equal(t, "simple", format.Patterns[0].Name)
		// Amount position defaults when the config omits it.
		assert.Equal(t, model.AmountSeparate, format.AmountPosition)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Load(writeConfig(t, "{not json"))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("unknown pattern kind", func(t *testing.T) {
		_, err := Load(writeConfig(t, `{"formats":[{"bank_id":"x","patterns":[{"kind":"fancy","regex":".*"}]}]}`))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("invalid regex", func(t *testing.T) {
		_, err := Load(writeConfig(t, `{"formats":[{"bank_id":"x","patterns":[{"kind":"simple","regex":"([unclosed"}]}]}`))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		assert.Same(t, Default(), LoadOrDefault(""))
	})

	t.Run("unreadable path falls back", func(t *testing.T) {
		reg := LoadOrDefault(filepath.Join(t.TempDir(), "absent.json"))
		assert.Same(t, Default(), reg)
	})

	t.Run("valid path loads", func(t *testing.T) {
		reg := LoadOrDefault(writeConfig(t, formatConfigJSON))
		require.Equal(t, 1, reg.Len())
		_, err := reg.Lookup("custom_bank")
		assert.NoError(t, err)
	})
}
