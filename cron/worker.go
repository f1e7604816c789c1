package cron

import (
	"context"
	"fmt"

	"tradewinds/config"
	inquiryRepo "tradewinds/database/repository/inquiry"
	"tradewinds/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisQueueOpt is the asynq connection for the submission queue.
func RedisQueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSubmissionQueueDB,
	}
}

// NewSubmissionServer builds the worker that stores queued submissions.
func NewSubmissionServer(repo inquiryRepo.SubmissionRepository, logger *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(
		RedisQueueOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDeliverSubmission, HandleSubmissionTask(repo, logger))
	return srv, mux
}

// HandleSubmissionTask persists a submission record. Malformed payloads are
// not retried.
func HandleSubmissionTask(repo inquiryRepo.SubmissionRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		record, err := tasks.ParseSubmissionTask(task)
		if err != nil {
			logger.Error("dropping submission task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := repo.Save(ctx, record); err != nil {
			logger.Warn("failed to store submission", zap.String("submissionID", record.ID), zap.Error(err))
			return err
		}
		logger.Info("submission delivered",
			zap.String("submissionID", record.ID),
			zap.String("sessionID", record.SessionID),
			zap.String("email", record.Contact.Email),
			zap.Int("candidates", len(record.Candidates)),
		)
		return nil
	}
}
