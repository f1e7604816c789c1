package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradewinds/models"

	"github.com/hibiken/asynq"
)

const TypeDeliverSubmission = "inquiry:deliver"

// NewSubmissionTask wraps a submission record for the delivery queue. The
// record id doubles as the task id so a record is queued at most once.
func NewSubmissionTask(record models.SubmissionRecord) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDeliverSubmission, b)
	opts := []asynq.Option{
		asynq.TaskID(record.ID),
		asynq.MaxRetry(10),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// ParseSubmissionTask decodes the payload of a delivery task.
func ParseSubmissionTask(task *asynq.Task) (models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	if err := json.Unmarshal(task.Payload(), &record); err != nil {
		return models.SubmissionRecord{}, fmt.Errorf("invalid submission payload: %w", err)
	}
	if record.ID == "" {
		return models.SubmissionRecord{}, fmt.Errorf("invalid submission payload: missing id")
	}
	return record, nil
}

// Enqueuer is the part of *asynq.Client the sink uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueSink emits submission records onto the asynq delivery queue.
type QueueSink struct {
	Client Enqueuer
}

func (s *QueueSink) Emit(ctx context.Context, record models.SubmissionRecord) error {
	task, opts, err := NewSubmissionTask(record)
	if err != nil {
		return fmt.Errorf("failed to build submission task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue submission %s: %w", record.ID, err)
	}
	return nil
}
