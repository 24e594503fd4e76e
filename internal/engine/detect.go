package engine

import (
	"strings"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/registry"
)

// detectionWindow is how many leading lines are scored during format
// detection.
const detectionWindow = 50

// detectionThreshold is the total pattern-match count a format needs to be
// selected.
const detectionThreshold = 3

// DetectFormat scores the raw text against every registered format and
// returns the best match. The first format (in registry order) whose
// patterns collectively match at least three of the first fifty lines wins;
// otherwise the registry's generic format is returned. This is a heuristic,
// not a certainty test: false positives are expected and are mitigated by
// validation downstream.
func DetectFormat(text string, reg *registry.Registry) *model.BankFormat {
	lines := strings.Split(text, "\n")
	if len(lines) > detectionWindow {
		lines = lines[:detectionWindow]
	}

	formats := reg.Formats()
	for i := range formats {
		matches := 0
		for _, line := range lines {
			for _, pattern := range formats[i].Patterns {
				if pattern.Regex.MatchString(line) {
					matches++
				}
			}
		}

		if matches >= detectionThreshold {
			f := formats[i]
			return &f
		}
	}

	return reg.Generic()
}
