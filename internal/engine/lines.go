package engine

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// CleanText normalizes raw statement text for line-by-line processing:
// line endings become \n, tabs become spaces, runs of spaces collapse, and
// each line is trimmed.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpace.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}

// headerKeywords mark header and footer lines. Statement headers are
// frequent false matches for loosely specified line patterns; requiring two
// keywords keeps real transaction lines (which rarely contain two of these
// words) from being rejected.
var headerKeywords = []string{
	"date",
	"description",
	"debit",
	"credit",
	"balance",
	"transaction",
	"amount",
	"reference",
	"page",
	"statement",
	"account",
}

// IsHeaderLine reports whether a line looks like a statement header or
// footer rather than a transaction.
func IsHeaderLine(line string) bool {
	lower := strings.ToLower(line)

	count := 0
	for _, keyword := range headerKeywords {
		if strings.Contains(lower, keyword) {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}
