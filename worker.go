package main

import (
	"tradewinds/cron"
	inquiryRepo "tradewinds/database/repository/inquiry"
	"tradewinds/utils"

	"github.com/spf13/cobra"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Store queued inquiry submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := utils.GetLogger().Named("worker")
			srv, mux := cron.NewSubmissionServer(inquiryRepo.NewMongoSubmissionRepo(), logger)
			logger.Info("submission worker starting")
			// Run blocks until SIGINT or SIGTERM.
			return srv.Run(mux)
		},
	}
}
