package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "depintrust",
	Short: "Trust scoring for DePIN infrastructure scan results",
	Long: `depintrust converts network-scan results for DePIN infrastructure nodes
into a 0-100 trust score, a letter security grade and a categorical risk
level. It can score single scan files from the command line or run as an
HTTP service that also keeps assessment records.`,
	SilenceUsage: true,
}
