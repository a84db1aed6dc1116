package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "futures-pnl-bot",
	Short: "WhatsApp bot that monitors leveraged BTC/ETH positions and alerts on profit targets",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(startCmd)
}
