// Package registry loads and holds the immutable set of bank format
// definitions shared read-only across all extractions.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Registry is an immutable collection of bank formats. Construct it once at
// startup and share it across extraction calls; it is safe for concurrent
// readers because nothing mutates it after New returns.
type Registry struct {
	byID    map[string]int
	formats []model.BankFormat
}

// New creates a registry from a list of formats.
func New(formats []model.BankFormat) (*Registry, error) {
	if len(formats) == 0 {
		return nil, common.ErrNoFormats
	}

	byID := make(map[string]int, len(formats))
	for i, f := range formats {
		if f.BankID == "" {
			return nil, fmt.Errorf("%w: format at index %d has no bank id", common.ErrInvalidConfig, i)
		}
		if len(f.Patterns) == 0 {
			return nil, fmt.Errorf("%w: format %q has no line patterns", common.ErrInvalidConfig, f.BankID)
		}
		if _, exists := byID[f.BankID]; exists {
			return nil, fmt.Errorf("%w: duplicate bank id %q", common.ErrInvalidConfig, f.BankID)
		}
		byID[f.BankID] = i
	}

	return &Registry{formats: formats, byID: byID}, nil
}

// Formats returns all registered formats in registration order.
func (r *Registry) Formats() []model.BankFormat {
	out := make([]model.BankFormat, len(r.formats))
	copy(out, r.formats)
	return out
}

// Len returns the number of registered formats.
func (r *Registry) Len() int {
	return len(r.formats)
}

// Lookup returns the format with the given bank id.
func (r *Registry) Lookup(bankID string) (*model.BankFormat, error) {
	i, ok := r.byID[bankID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrFormatNotFound, bankID)
	}
	return &r.formats[i], nil
}

// Generic returns the fallback format used when detection finds no
// confident match: the format registered as "generic", or the first
// registered format when none carries that id.
func (r *Registry) Generic() *model.BankFormat {
	if i, ok := r.byID["generic"]; ok {
		return &r.formats[i]
	}
	return &r.formats[0]
}

// Summaries returns the identity-only view of every registered format,
// for "list supported banks" style consumers. Patterns are not exposed.
func (r *Registry) Summaries() []model.BankSummary {
	out := make([]model.BankSummary, len(r.formats))
	for i, f := range r.formats {
		out[i] = f.Summary()
	}
	return out
}

// formatConfig is the on-disk JSON shape of a bank format.
type formatConfig struct {
	BankID             string          `json:"bank_id"`
	BankName           string          `json:"bank_name"`
	Country            string          `json:"country"`
	DateFormat         string          `json:"date_format"`
	DecimalSeparator   string          `json:"decimal_separator"`
	ThousandsSeparator string          `json:"thousands_separator"`
	AmountPosition     string          `json:"amount_position"`
	Patterns           []patternConfig `json:"patterns"`
	BalanceIncluded    bool            `json:"balance_included"`
}

type patternConfig struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Regex string `json:"regex"`
}

type registryConfig struct {
	Formats []formatConfig `json:"formats"`
}

// Load reads a registry from a JSON configuration file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read format config %q: %w", path, err)
	}

	var cfg registryConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse format config %q: %v", common.ErrInvalidConfig, path, err)
	}

	formats := make([]model.BankFormat, 0, len(cfg.Formats))
	for _, fc := range cfg.Formats {
		f, err := fc.build()
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}

	return New(formats)
}

func (fc formatConfig) build() (model.BankFormat, error) {
	patterns := make([]model.LinePattern, 0, len(fc.Patterns))
	for _, pc := range fc.Patterns {
		kind, err := parseKind(pc.Kind)
		if err != nil {
			return model.BankFormat{}, fmt.Errorf("%w: format %q pattern %q: %v",
				common.ErrInvalidConfig, fc.BankID, pc.Name, err)
		}

		re, err := regexp.Compile(pc.Regex)
		if err != nil {
			return model.BankFormat{}, fmt.Errorf("%w: format %q pattern %q: %v",
				common.ErrInvalidConfig, fc.BankID, pc.Name, err)
		}

		name := pc.Name
		if name == "" {
			name = kind.String()
		}

		patterns = append(patterns, model.LinePattern{Name: name, Kind: kind, Regex: re})
	}

	position := model.AmountPosition(fc.AmountPosition)
	if position == "" {
		position = model.AmountSeparate
	}

	return model.BankFormat{
		BankID:             fc.BankID,
		BankName:           fc.BankName,
		Country:            fc.Country,
		DateFormat:         fc.DateFormat,
		DecimalSeparator:   fc.DecimalSeparator,
		ThousandsSeparator: fc.ThousandsSeparator,
		AmountPosition:     position,
		BalanceIncluded:    fc.BalanceIncluded,
		Patterns:           patterns,
	}, nil
}

func parseKind(s string) (model.PatternKind, error) {
	switch s {
	case "standard":
		return model.PatternStandard, nil
	case "simple":
		return model.PatternSimple, nil
	case "combined":
		return model.PatternCombined, nil
	}
	return 0, fmt.Errorf("unknown pattern kind %q", s)
}

// LoadOrDefault loads the registry from path, falling back to the built-in
// default formats when the path is empty or unreadable. Detection always has
// at least one candidate this way.
func LoadOrDefault(path string) *Registry {
	if path == "" {
		return Default()
	}
	reg, err := Load(path)
	if err != nil {
		common.LogError(err, "Failed to load bank format config, using defaults", common.Fields{"path": path})
		return Default()
	}
	return reg
}
