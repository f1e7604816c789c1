package main

import (
	"os"

	"tradewinds/config"
	"tradewinds/utils"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "tradewinds",
		Short: "Inquiry wizard and concierge backend",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			utils.InitializeLogger()
		},
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newWorkerCmd(), newSeedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
