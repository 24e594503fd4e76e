package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func banksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported bank formats",
		Long: `List the bank formats the extraction engine knows about.

Formats come from the configured format file (formats.path) or, when none
is configured, from the built-in defaults. Use a listed bank id with
"sift extract --bank" to skip format detection.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			reg := loadRegistry()

			fmt.Printf("%-12s %-28s %s\n", "ID", "NAME", "COUNTRY")
			for _, summary := range reg.Summaries() {
				fmt.Printf("%-12s %-28s %s\n", summary.BankID, summary.BankName, summary.Country)
			}
			return nil
		},
	}
}
