package inquiry

import (
	"sort"

	"tradewinds/models"
)

// DefaultPickBonus is added to the score of every resort the traveler picked
// by hand. It only needs to exceed any achievable tag overlap.
const DefaultPickBonus = 1000

// Match scores the resorts against the accumulated answers.
//
// A resort scores one point per tag shared with the selected experiences and
// preferences. When the traveler picked resorts, only those resorts are
// returned, each with pickBonus added; otherwise resorts without any overlap
// are left out. Higher scores come first and ties keep catalog order.
func Match(answers map[models.WizardStep]models.Answer, resorts []models.Resort, pickBonus int) []models.MatchCandidate {
	wanted := make(map[string]struct{})
	for _, step := range []models.WizardStep{models.StepExperiences, models.StepPreferences} {
		ans, ok := answers[step]
		if !ok || ans.Skipped {
			continue
		}
		for _, id := range ans.Options {
			wanted[id] = struct{}{}
		}
	}

	picks := make(map[string]struct{})
	if ans, ok := answers[models.StepResortPicks]; ok && !ans.Skipped {
		for _, id := range ans.Options {
			picks[id] = struct{}{}
		}
	}

	candidates := make([]models.MatchCandidate, 0, len(resorts))
	for _, r := range resorts {
		_, picked := picks[r.ID]
		if len(picks) > 0 && !picked {
			continue
		}
		matched := overlap(r.Tags, wanted)
		if !picked && len(matched) == 0 {
			continue
		}
		score := len(matched)
		if picked {
			score += pickBonus
		}
		candidates = append(candidates, models.MatchCandidate{
			ResortID: r.ID,
			Name:     r.Name,
			Score:    score,
			Matched:  matched,
			Picked:   picked,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

func overlap(tags []string, wanted map[string]struct{}) []string {
	matched := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := wanted[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		matched = append(matched, t)
	}
	sort.Strings(matched)
	return matched
}
