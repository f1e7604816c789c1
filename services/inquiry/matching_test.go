package inquiry

import (
	"context"
	"testing"

	"tradewinds/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(list ...models.Answer) map[models.WizardStep]models.Answer {
	m := make(map[models.WizardStep]models.Answer, len(list))
	for _, a := range list {
		m[a.Step] = a
	}
	return m
}

func selected(step models.WizardStep, ids ...string) models.Answer {
	return models.Answer{Step: step, Options: ids}
}

func ids(candidates []models.MatchCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ResortID
	}
	return out
}

func TestMatch_ScoresByOverlap(t *testing.T) {
	resorts, _ := testCatalog().ListResorts(context.Background())
	got := Match(answers(
		selected(models.StepExperiences, "snorkeling", "spa"),
		selected(models.StepPreferences, "beach-villa"),
		models.SkippedAnswer(models.StepResortPicks),
	), resorts, DefaultPickBonus)

	// palm-haven and reef-break tie at 2 and keep catalog order.
	assert.Equal(t, []string{"palm-haven", "reef-break", "coral-lagoon", "blue-horizon"}, ids(got))
	assert.Equal(t, 2, got[0].Score)
	assert.Equal(t, []string{"beach-villa", "spa"}, got[0].Matched)
	assert.Equal(t, 1, got[3].Score)
}

func TestMatch_ExcludesZeroOverlap(t *testing.T) {
	resorts, _ := testCatalog().ListResorts(context.Background())
	got := Match(answers(
		selected(models.StepExperiences, "surfing"),
		models.SkippedAnswer(models.StepPreferences),
	), resorts, DefaultPickBonus)

	assert.Equal(t, []string{"reef-break"}, ids(got))
}

func TestMatch_PicksAreHardFilter(t *testing.T) {
	resorts, _ := testCatalog().ListResorts(context.Background())
	got := Match(answers(
		selected(models.StepExperiences, "diving", "snorkeling"),
		selected(models.StepResortPicks, "blue-horizon", "coral-lagoon"),
	), resorts, DefaultPickBonus)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"coral-lagoon", "blue-horizon"}, ids(got))
	assert.Equal(t, DefaultPickBonus+2, got[0].Score)
	assert.Equal(t, DefaultPickBonus, got[1].Score)
	for _, c := range got {
		assert.True(t, c.Picked)
	}
}

func TestMatch_PickedResortWithNoOverlapIsKept(t *testing.T) {
	resorts, _ := testCatalog().ListResorts(context.Background())
	got := Match(answers(
		models.SkippedAnswer(models.StepExperiences),
		models.SkippedAnswer(models.StepPreferences),
		selected(models.StepResortPicks, "palm-haven"),
	), resorts, 50)

	require.Len(t, got, 1)
	assert.Equal(t, 50, got[0].Score)
	assert.Empty(t, got[0].Matched)
}

func TestMatch_NoAnswersYieldsNothing(t *testing.T) {
	resorts, _ := testCatalog().ListResorts(context.Background())
	assert.Empty(t, Match(nil, resorts, DefaultPickBonus))
}

func TestMatch_Deterministic(t *testing.T) {
	resorts, _ := testCatalog().ListResorts(context.Background())
	a := answers(selected(models.StepExperiences, "spa", "snorkeling"), selected(models.StepPreferences, "overwater-villa"))
	first := Match(a, resorts, DefaultPickBonus)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Match(a, resorts, DefaultPickBonus))
	}
}
