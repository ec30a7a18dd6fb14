package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/disperse-labs/disperse/pkg/config"
)

// RootCmd is the root command of the disperse CLI.
var RootCmd = &cobra.Command{
	Use:   "disperse",
	Short: "Batch payout distribution engine for Solana",
	Long: `disperse distributes a fixed amount of lamports to every holder of a
token mint. Transfers are bundled into size-bounded transactions and each
transaction is driven through submission, finality reconciliation and
bounded retries, so an unreliable RPC channel never double-pays a
recipient or silently drops a transfer.`,
}

// VersionCmd prints the disperse version.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("disperse version %s\n", config.Version)
	},
}

func init() {
	RootCmd.PersistentFlags().String(config.FlagRootDir, config.DefaultRootDir(), "root directory for disperse configuration")
}
