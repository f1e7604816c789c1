package inquiry

import (
	"sort"
	"strings"

	"tradewinds/models"
)

// DefaultConstraints is the selection table applied by the wizard.
var DefaultConstraints = map[models.WizardStep]models.SelectionConstraint{
	models.StepPurpose:     {MinSelections: 1, MaxSelections: 1, AllowsSkip: false},
	models.StepExperiences: {MinSelections: 1, MaxSelections: 3, AllowsSkip: true},
	models.StepPreferences: {MinSelections: 1, MaxSelections: 3, AllowsSkip: true},
	models.StepResortPicks: {MinSelections: 0, MaxSelections: 3, AllowsSkip: true},
}

// Validate normalizes a proposed selection for a step against its constraint.
// The no-preference sentinel wins over every other entry when the step allows
// skipping, so a stored answer is either skipped or a plain set of ids.
func Validate(step models.WizardStep, proposed []string, c models.SelectionConstraint) (models.Answer, error) {
	ids, sentinel := normalize(proposed)

	if sentinel {
		if !c.AllowsSkip {
			return models.Answer{}, rejected(KindSkipNotAllowed, step, "this step cannot be skipped")
		}
		return models.SkippedAnswer(step), nil
	}

	if len(ids) > c.MaxSelections {
		return models.Answer{}, rejected(KindTooMany, step, "at most %d selections allowed, got %d", c.MaxSelections, len(ids))
	}
	if len(ids) < c.MinSelections {
		if !c.AllowsSkip {
			return models.Answer{}, rejected(KindTooFew, step, "at least %d selections required, got %d", c.MinSelections, len(ids))
		}
	}
	if len(ids) == 0 && c.AllowsSkip {
		return models.SkippedAnswer(step), nil
	}

	return models.Answer{Step: step, Options: ids}, nil
}

// normalize trims, drops blanks and duplicates, and sorts. The sentinel is
// reported separately and never returned among the ids.
func normalize(proposed []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(proposed))
	ids := make([]string, 0, len(proposed))
	sentinel := false
	for _, raw := range proposed {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if id == models.NoPreference {
			sentinel = true
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, sentinel
}
