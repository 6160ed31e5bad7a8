// Command bankctl manages client accounts stored as CSV files or in MySQL:
// listing, deposits and withdrawals, service charges, interest and journal
// reconciliation.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var envFile string

// rootCmd is the bankctl entry point.
var rootCmd = &cobra.Command{
	Use:          "bankctl",
	Short:        "Manage client bank accounts",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file (default .env)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
