package inquiry

import (
	"context"
	"testing"

	"tradewinds/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkToContact answers every selection step.
func walkToContact(t *testing.T, w *Wizard, s *models.WizardSession) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, w.Advance(ctx, s, models.StepPurpose, []string{"honeymoon"}))
	require.NoError(t, w.Advance(ctx, s, models.StepExperiences, []string{"spa", "snorkeling"}))
	require.NoError(t, w.Advance(ctx, s, models.StepPreferences, []string{models.NoPreference}))
	require.NoError(t, w.Advance(ctx, s, models.StepResortPicks, nil))
	require.Equal(t, models.StateOf(models.StepContactDetails), s.State)
}

func TestWizard_NewSessionStartsOnPurpose(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	assert.Equal(t, models.StateOf(models.StepPurpose), s.State)
	assert.Empty(t, s.Answers)
	assert.Equal(t, "id-1", s.ID)
}

func TestWizard_AdvanceStoresAnswerAndMoves(t *testing.T) {
	w := testWizard()
	s := w.NewSession()

	err := w.Advance(context.Background(), s, models.StepPurpose, []string{"honeymoon"})
	require.NoError(t, err)
	assert.Equal(t, models.StateOf(models.StepExperiences), s.State)
	assert.Equal(t, []string{"honeymoon"}, s.Answers[models.StepPurpose].Options)
}

func TestWizard_RejectionLeavesSessionUntouched(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	ctx := context.Background()
	require.NoError(t, w.Advance(ctx, s, models.StepPurpose, []string{"family"}))

	err := w.Advance(ctx, s, models.StepExperiences, []string{"spa", "diving", "surfing", "snorkeling"})
	assert.ErrorIs(t, err, ErrTooMany)
	assert.Equal(t, models.StateOf(models.StepExperiences), s.State)
	_, stored := s.Answers[models.StepExperiences]
	assert.False(t, stored)
}

func TestWizard_AdvanceRejectsUnknownOption(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	ctx := context.Background()

	err := w.Advance(ctx, s, models.StepPurpose, []string{"business"})
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, models.StateOf(models.StepPurpose), s.State)

	// An experience id is not a valid purpose.
	err = w.Advance(ctx, s, models.StepPurpose, []string{"diving"})
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestWizard_AdvanceRejectsUnknownResortPick(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	ctx := context.Background()
	require.NoError(t, w.Advance(ctx, s, models.StepPurpose, []string{"family"}))
	require.NoError(t, w.Advance(ctx, s, models.StepExperiences, nil))
	require.NoError(t, w.Advance(ctx, s, models.StepPreferences, []string{"beach-villa"}))

	err := w.Advance(ctx, s, models.StepResortPicks, []string{"palm-haven", "atlantis"})
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, models.StateOf(models.StepResortPicks), s.State)
}

func TestWizard_AdvanceWrongStep(t *testing.T) {
	w := testWizard()
	s := w.NewSession()

	err := w.Advance(context.Background(), s, models.StepExperiences, []string{"spa"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StateOf(models.StepPurpose), s.State)
}

func TestWizard_AdvanceFromLastStepIsInvalid(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	walkToContact(t, w, s)

	err := w.Advance(context.Background(), s, models.StepContactDetails, []string{"x"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestWizard_RetreatKeepsAnswers(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	ctx := context.Background()
	require.NoError(t, w.Advance(ctx, s, models.StepPurpose, []string{"honeymoon"}))
	require.NoError(t, w.Advance(ctx, s, models.StepExperiences, []string{"spa"}))

	require.NoError(t, w.Retreat(s))
	assert.Equal(t, models.StateOf(models.StepExperiences), s.State)
	assert.Equal(t, []string{"spa"}, s.Answers[models.StepExperiences].Options)

	require.NoError(t, w.Retreat(s))
	assert.Equal(t, models.StateOf(models.StepPurpose), s.State)
	assert.Len(t, s.Answers, 2)

	assert.ErrorIs(t, w.Retreat(s), ErrInvalidTransition)
}

func TestWizard_ReanswerAfterRetreatReplaces(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	ctx := context.Background()
	require.NoError(t, w.Advance(ctx, s, models.StepPurpose, []string{"honeymoon"}))
	require.NoError(t, w.Retreat(s))
	require.NoError(t, w.Advance(ctx, s, models.StepPurpose, []string{"family"}))

	assert.Equal(t, []string{"family"}, s.Answers[models.StepPurpose].Options)
}

func TestWizard_ReanswerInOtherOrderIsIdentical(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	ctx := context.Background()
	require.NoError(t, w.Advance(ctx, s, models.StepPurpose, []string{"honeymoon"}))
	require.NoError(t, w.Advance(ctx, s, models.StepExperiences, []string{"spa", "snorkeling"}))
	before := s.Answers[models.StepExperiences]

	require.NoError(t, w.Retreat(s))
	require.NoError(t, w.Advance(ctx, s, models.StepExperiences, []string{"snorkeling", "spa"}))
	after := s.Answers[models.StepExperiences]

	assert.True(t, before.Equal(after), "before %v, after %v", before.Options, after.Options)
	assert.Equal(t, before, after)
	assert.Equal(t, models.StateOf(models.StepPreferences), s.State)
}

func TestWizard_Submit(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	walkToContact(t, w, s)

	record, err := w.Submit(context.Background(), s, validContact())
	require.NoError(t, err)
	assert.Equal(t, models.StateSubmitted, s.State)
	assert.Equal(t, s.ID, record.SessionID)
	assert.Len(t, record.Answers, 4)
	assert.True(t, record.Answers[2].Skipped)
	assert.Equal(t, "aisha@example.com", record.Contact.Email)
	require.NotEmpty(t, record.Candidates)
	// spa + snorkeling: every resort ties at 1 and keeps catalog order.
	assert.Equal(t, []string{"coral-lagoon", "palm-haven", "reef-break", "blue-horizon"}, ids(record.Candidates))
}

func TestWizard_SubmitFieldErrors(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	walkToContact(t, w, s)

	contact := validContact()
	contact.Name = "  "
	contact.Email = "not-an-email"
	contact.Departure = "2026-10-30"

	record, err := w.Submit(context.Background(), s, contact)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrFieldFormat)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Reason
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "departure")
	assert.NotContains(t, fields, "phone")

	assert.Equal(t, models.StateOf(models.StepContactDetails), s.State)
	assert.Equal(t, "not-an-email", s.Contact.Email)
}

func TestWizard_SubmitOnlyFromContactStep(t *testing.T) {
	w := testWizard()
	s := w.NewSession()

	_, err := w.Submit(context.Background(), s, validContact())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StateOf(models.StepPurpose), s.State)
}

func TestWizard_SubmitRequiresEveryAnswer(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	walkToContact(t, w, s)
	delete(s.Answers, models.StepPreferences)

	_, err := w.Submit(context.Background(), s, validContact())
	assert.ErrorIs(t, err, ErrMissingAnswer)
}

func TestWizard_TerminalStatesRejectMutation(t *testing.T) {
	w := testWizard()
	ctx := context.Background()

	submitted := w.NewSession()
	walkToContact(t, w, submitted)
	_, err := w.Submit(ctx, submitted, validContact())
	require.NoError(t, err)

	abandoned := w.NewSession()
	require.NoError(t, w.Abandon(abandoned))
	assert.Equal(t, models.StateAbandoned, abandoned.State)

	for _, s := range []*models.WizardSession{submitted, abandoned} {
		assert.ErrorIs(t, w.Advance(ctx, s, models.StepPurpose, []string{"family"}), ErrInvalidTransition)
		assert.ErrorIs(t, w.Retreat(s), ErrInvalidTransition)
		assert.ErrorIs(t, w.Abandon(s), ErrInvalidTransition)
		_, err := w.Submit(ctx, s, validContact())
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestWizard_PreviewDoesNotAdvance(t *testing.T) {
	w := testWizard()
	s := w.NewSession()
	ctx := context.Background()
	require.NoError(t, w.Advance(ctx, s, models.StepPurpose, []string{"honeymoon"}))
	require.NoError(t, w.Advance(ctx, s, models.StepExperiences, []string{"surfing"}))

	got, err := w.Preview(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"reef-break"}, ids(got))
	assert.Equal(t, models.StateOf(models.StepPreferences), s.State)
}

func TestValidateContact(t *testing.T) {
	assert.Empty(t, ValidateContact(validContact()))

	c := validContact()
	c.Phone = ""
	c.Adults = -1
	c.MealPlan = "half-price"
	c.Arrival = "02/11/2026"

	got := map[string]bool{}
	for _, f := range ValidateContact(c) {
		got[f.Field] = true
	}
	assert.Equal(t, map[string]bool{"phone": true, "adults": true, "mealPlan": true, "arrival": true}, got)
}
