// Package classify assigns semantic categories to transactions based on
// their descriptions.
package classify

import "strings"

// Category names assigned by the categorizer.
const (
	CategoryFee      = "FEE"
	CategoryInterest = "INTEREST"
	CategoryTransfer = "TRANSFER"
	CategoryATM      = "ATM"
	CategoryPayment  = "PAYMENT"
	CategoryDeposit  = "DEPOSIT"
	CategoryPurchase = "PURCHASE"
	CategoryOther    = "OTHER"
)

// categoryRule pairs a category with the description keywords that imply it.
type categoryRule struct {
	name     string
	keywords []string
}

// categoryRules is checked in order; the first category whose keyword set
// matches wins, so more specific categories come first.
var categoryRules = []categoryRule{
	{CategoryFee, []string{"fee", "charge", "service charge"}},
	{CategoryInterest, []string{"interest", "dividend"}},
	{CategoryTransfer, []string{"transfer", "wire", "ach"}},
	{CategoryATM, []string{"atm", "cash withdrawal"}},
	{CategoryPayment, []string{"payment", "bill pay"}},
	{CategoryDeposit, []string{"deposit", "credit"}},
	{CategoryPurchase, []string{"purchase", "pos", "card purchase"}},
}

// Categorize returns the semantic category for a transaction description.
// Matching is case-insensitive substring search. When no category matches,
// the fallback (the DEBIT/CREDIT type already assigned) is returned, or
// OTHER when there is no fallback either.
func Categorize(description, fallback string) string {
	lower := strings.ToLower(description)

	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.name
			}
		}
	}

	if fallback != "" {
		return fallback
	}
	return CategoryOther
}

// debitKeywords imply an outflow when a format's simple pattern leaves the
// debit/credit decision to the description. This is a fixed English list;
// non-English statements fall through to the credit default.
var debitKeywords = []string{
	"withdrawal",
	"payment",
	"purchase",
	"fee",
	"charge",
	"debit",
	"transfer out",
	"atm",
}

// IsDebitDescription reports whether a description implies an outflow.
func IsDebitDescription(description string) bool {
	lower := strings.ToLower(description)
	for _, keyword := range debitKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
