package model

import "time"

// Severity ranks how serious a finding is.
type Severity string

// Severity constants.
const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Finding is a structured error or warning produced during extraction.
// The same shape is shared by the validator, the balance reconciler, and
// the duplicate detector.
type Finding struct {
	Timestamp time.Time      `json:"timestamp"`
	Context   map[string]any `json:"context,omitempty"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Severity  Severity       `json:"severity"`
}

// NewFinding creates a finding stamped with the current time.
func NewFinding(code, message string, severity Severity) Finding {
	return Finding{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Timestamp: time.Now().UTC(),
	}
}

// WithContext attaches a context key/value pair and returns the finding.
func (f Finding) WithContext(key string, value any) Finding {
	if f.Context == nil {
		f.Context = make(map[string]any)
	}
	f.Context[key] = value
	return f
}

// Finding codes emitted by the engine.
const (
	CodeUnknownFormat        = "UNKNOWN_FORMAT"
	CodeNoTransactions       = "NO_TRANSACTIONS"
	CodeMissingDate          = "MISSING_DATE"
	CodeInvalidDate          = "INVALID_DATE"
	CodeFutureDate           = "FUTURE_DATE"
	CodeStaleDate            = "STALE_DATE"
	CodeMissingAmount        = "MISSING_AMOUNT"
	CodeNegativeAmount       = "NEGATIVE_AMOUNT"
	CodeAmountExceedsLimit   = "AMOUNT_EXCEEDS_LIMIT"
	CodeEmptyDescription     = "EMPTY_DESCRIPTION"
	CodeSuspiciousText       = "SUSPICIOUS_DESCRIPTION"
	CodeBalanceMismatch      = "BALANCE_MISMATCH"
	CodeDuplicateTransaction = "DUPLICATE_TRANSACTION"
)
