package inquiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradewinds/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	records []models.SubmissionRecord
	err     error
}

func (s *recordingSink) Emit(_ context.Context, record models.SubmissionRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func newTestService(t *testing.T) (*DefaultInquiryService, *recordingSink, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sink := &recordingSink{}
	store := NewRedisSessionStore(client, 30*time.Minute)
	return NewInquiryService(testWizard(), store, sink, zap.NewNop()), sink, mr
}

func advanceAll(t *testing.T, svc *DefaultInquiryService, id string) {
	t.Helper()
	ctx := context.Background()
	steps := []struct {
		step models.WizardStep
		sel  []string
	}{
		{models.StepPurpose, []string{"honeymoon"}},
		{models.StepExperiences, []string{"diving"}},
		{models.StepPreferences, []string{"overwater-villa"}},
		{models.StepResortPicks, []string{models.NoPreference}},
	}
	for _, st := range steps {
		_, err := svc.Advance(ctx, id, st.step, st.sel)
		require.NoError(t, err)
	}
}

func TestInquiryService_SessionRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	require.NoError(t, err)

	updated, err := svc.Advance(ctx, session.ID, models.StepPurpose, []string{"family"})
	require.NoError(t, err)
	assert.Equal(t, models.StateOf(models.StepExperiences), updated.State)

	loaded, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.State, loaded.State)
	assert.True(t, updated.Answers[models.StepPurpose].Equal(loaded.Answers[models.StepPurpose]))
}

func TestInquiryService_RejectedAdvanceIsNotStored(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	session, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.Advance(ctx, session.ID, models.StepPurpose, []string{"honeymoon", "family"})
	assert.ErrorIs(t, err, ErrTooMany)

	loaded, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateOf(models.StepPurpose), loaded.State)
	assert.Empty(t, loaded.Answers)
}

func TestInquiryService_SessionExpires(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()
	session, err := svc.StartSession(ctx)
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = svc.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInquiryService_SubmitEmitsOnceAndRemovesSession(t *testing.T) {
	svc, sink, _ := newTestService(t)
	ctx := context.Background()
	session, err := svc.StartSession(ctx)
	require.NoError(t, err)
	advanceAll(t, svc, session.ID)

	matches, err := svc.Matches(ctx, session.ID)
	require.NoError(t, err)

	record, err := svc.Submit(ctx, session.ID, validContact())
	require.NoError(t, err)
	require.Len(t, sink.records, 1)
	assert.Equal(t, record.ID, sink.records[0].ID)
	assert.Equal(t, matches, record.Candidates)
	assert.Equal(t, "coral-lagoon", record.Candidates[0].ResortID)

	_, err = svc.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Submit(ctx, session.ID, validContact())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Len(t, sink.records, 1)
}

func TestInquiryService_SubmitKeepsRejectedContact(t *testing.T) {
	svc, sink, _ := newTestService(t)
	ctx := context.Background()
	session, err := svc.StartSession(ctx)
	require.NoError(t, err)
	advanceAll(t, svc, session.ID)

	contact := validContact()
	contact.Email = "aisha@"
	_, err = svc.Submit(ctx, session.ID, contact)
	assert.ErrorIs(t, err, ErrFieldFormat)
	assert.Empty(t, sink.records)

	loaded, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateOf(models.StepContactDetails), loaded.State)
	assert.Equal(t, "aisha@", loaded.Contact.Email)
	assert.Equal(t, "Aisha Rahman", loaded.Contact.Name)
}

func TestInquiryService_SinkFailureKeepsSession(t *testing.T) {
	svc, sink, _ := newTestService(t)
	ctx := context.Background()
	session, err := svc.StartSession(ctx)
	require.NoError(t, err)
	advanceAll(t, svc, session.ID)

	sink.err = errors.New("queue unavailable")
	_, err = svc.Submit(ctx, session.ID, validContact())
	require.Error(t, err)

	loaded, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateOf(models.StepContactDetails), loaded.State)

	sink.err = nil
	_, err = svc.Submit(ctx, session.ID, validContact())
	require.NoError(t, err)
	assert.Len(t, sink.records, 1)
}

func TestInquiryService_AbandonDeletes(t *testing.T) {
	svc, sink, _ := newTestService(t)
	ctx := context.Background()
	session, err := svc.StartSession(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Abandon(ctx, session.ID))
	_, err = svc.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Abandon(ctx, session.ID), ErrSessionNotFound)
	assert.Empty(t, sink.records)
}
