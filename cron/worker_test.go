package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tradewinds/models"
	"tradewinds/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySubmissions struct {
	saved map[string]models.SubmissionRecord
	err   error
}

func (m *memorySubmissions) Save(_ context.Context, record models.SubmissionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.saved[record.ID] = record
	return nil
}

func (m *memorySubmissions) GetByID(_ context.Context, id string) (*models.SubmissionRecord, error) {
	r, ok := m.saved[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &r, nil
}

func TestHandleSubmissionTask(t *testing.T) {
	repo := &memorySubmissions{saved: map[string]models.SubmissionRecord{}}
	handler := HandleSubmissionTask(repo, zap.NewNop())

	task, _, err := tasks.NewSubmissionTask(models.SubmissionRecord{ID: "sub-1", SessionID: "s-1"})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	assert.Contains(t, repo.saved, "sub-1")

	// Redelivery overwrites the same record.
	require.NoError(t, handler(context.Background(), task))
	assert.Len(t, repo.saved, 1)
}

func TestHandleSubmissionTask_BadPayloadIsNotRetried(t *testing.T) {
	repo := &memorySubmissions{saved: map[string]models.SubmissionRecord{}}
	handler := HandleSubmissionTask(repo, zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(tasks.TypeDeliverSubmission, []byte("nope")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, repo.saved)
}

func TestHandleSubmissionTask_StoreFailureIsRetried(t *testing.T) {
	repo := &memorySubmissions{saved: map[string]models.SubmissionRecord{}, err: errors.New("mongo down")}
	handler := HandleSubmissionTask(repo, zap.NewNop())

	payload, err := json.Marshal(models.SubmissionRecord{ID: "sub-2"})
	require.NoError(t, err)
	err = handler(context.Background(), asynq.NewTask(tasks.TypeDeliverSubmission, payload))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
