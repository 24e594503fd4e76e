package validate

import (
	"fmt"

	"github.com/ledgersift/ledgersift/internal/model"
)

// DetectDuplicates flags transactions sharing an exact (date, amount,
// description) tuple. The first occurrence establishes ownership; every
// later transaction with the same key gets one MEDIUM warning referencing
// the first occurrence's index. This is flag-for-review, not reject:
// legitimate repeats (two identical coffee purchases on one day) are
// flagged on purpose.
func DetectDuplicates(txns []model.Transaction) []model.Finding {
	var findings []model.Finding
	seen := make(map[string]int, len(txns))

	for i := range txns {
		key := txns[i].DuplicateKey()
		first, dup := seen[key]
		if !dup {
			seen[key] = i
			continue
		}

		f := model.NewFinding(model.CodeDuplicateTransaction,
			fmt.Sprintf("possible duplicate of transaction %d (same date, amount, and description)", first),
			model.SeverityMedium)
		txns[i].MarkWarning(f.Message)
		findings = append(findings, f.
			WithContext("index", i).
			WithContext("first_index", first).
			WithContext("transaction_id", txns[i].ID))
	}

	return findings
}
