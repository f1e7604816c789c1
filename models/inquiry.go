package models

import "time"

// WizardStep identifies one page of the inquiry wizard.
type WizardStep string

const (
	StepPurpose        WizardStep = "purpose"
	StepExperiences    WizardStep = "experiences"
	StepPreferences    WizardStep = "preferences"
	StepResortPicks    WizardStep = "resortPicks"
	StepContactDetails WizardStep = "contactDetails"
)

// WizardSteps lists the steps in traversal order.
var WizardSteps = []WizardStep{
	StepPurpose,
	StepExperiences,
	StepPreferences,
	StepResortPicks,
	StepContactDetails,
}

// Index returns the position of the step in WizardSteps, or -1.
func (s WizardStep) Index() int {
	for i, step := range WizardSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known step.
func (s WizardStep) Valid() bool {
	return s.Index() >= 0
}

// WizardState is the state of a session: a step or one of the terminal states.
type WizardState string

const (
	StateSubmitted WizardState = "submitted"
	StateAbandoned WizardState = "abandoned"
)

// StateOf converts a step into its wizard state.
func StateOf(step WizardStep) WizardState {
	return WizardState(step)
}

// Terminal reports whether no further transitions are accepted.
func (s WizardState) Terminal() bool {
	return s == StateSubmitted || s == StateAbandoned
}

// Step returns the step for a non-terminal state.
func (s WizardState) Step() (WizardStep, bool) {
	step := WizardStep(s)
	return step, step.Valid()
}

// NoPreference is the option id a client sends to skip a step.
const NoPreference = "no-preference"

// Answer is the validated selection stored for a step. A skipped answer never
// carries options.
type Answer struct {
	Step    WizardStep `bson:"step" json:"step"`
	Skipped bool       `bson:"skipped" json:"skipped"`
	Options []string   `bson:"options" json:"options"` // sorted, unique
}

// SkippedAnswer builds the skip variant for a step.
func SkippedAnswer(step WizardStep) Answer {
	return Answer{Step: step, Skipped: true, Options: []string{}}
}

// Has reports whether the answer selected the given option.
func (a Answer) Has(id string) bool {
	for _, o := range a.Options {
		if o == id {
			return true
		}
	}
	return false
}

// Equal compares two answers as sets.
func (a Answer) Equal(b Answer) bool {
	if a.Step != b.Step || a.Skipped != b.Skipped || len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if a.Options[i] != b.Options[i] {
			return false
		}
	}
	return true
}

// SelectionConstraint bounds the selection accepted for a step.
type SelectionConstraint struct {
	MinSelections int  `json:"minSelections"`
	MaxSelections int  `json:"maxSelections"`
	AllowsSkip    bool `json:"allowsSkip"`
}

// MealPlan is the board basis requested in the contact step.
type MealPlan string

const (
	MealPlanRoomOnly     MealPlan = "room-only"
	MealPlanBreakfast    MealPlan = "bed-and-breakfast"
	MealPlanHalfBoard    MealPlan = "half-board"
	MealPlanFullBoard    MealPlan = "full-board"
	MealPlanAllInclusive MealPlan = "all-inclusive"
)

// Valid reports whether the meal plan is one the agency sells.
func (m MealPlan) Valid() bool {
	switch m {
	case MealPlanRoomOnly, MealPlanBreakfast, MealPlanHalfBoard, MealPlanFullBoard, MealPlanAllInclusive:
		return true
	}
	return false
}

// ContactDetails are the traveler fields collected on the last step.
type ContactDetails struct {
	Name      string   `bson:"name" json:"name"`
	Phone     string   `bson:"phone" json:"phone"`
	Email     string   `bson:"email" json:"email"`
	Arrival   string   `bson:"arrival,omitempty" json:"arrival,omitempty"`     // YYYY-MM-DD
	Departure string   `bson:"departure,omitempty" json:"departure,omitempty"` // YYYY-MM-DD
	Adults    int      `bson:"adults,omitempty" json:"adults,omitempty"`
	Children  int      `bson:"children,omitempty" json:"children,omitempty"`
	MealPlan  MealPlan `bson:"mealPlan,omitempty" json:"mealPlan,omitempty"`
	Message   string   `bson:"message,omitempty" json:"message,omitempty"`
}

// WizardSession is one traveler's in-progress inquiry.
type WizardSession struct {
	ID        string                `json:"id"`
	State     WizardState           `json:"state"`
	Answers   map[WizardStep]Answer `json:"answers"`
	Contact   ContactDetails        `json:"contact"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// SubmissionRecord is emitted once per successful submit and never changed.
type SubmissionRecord struct {
	ID          string           `bson:"id" json:"id"`
	SessionID   string           `bson:"sessionId" json:"sessionId"`
	Answers     []Answer         `bson:"answers" json:"answers"` // in step order
	Contact     ContactDetails   `bson:"contact" json:"contact"`
	Candidates  []MatchCandidate `bson:"candidates" json:"candidates"`
	SubmittedAt time.Time        `bson:"submittedAt" json:"submittedAt"`
}
