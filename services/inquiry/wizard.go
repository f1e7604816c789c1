package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	catalogRepo "tradewinds/database/repository/catalog"
	"tradewinds/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Catalog is the part of the catalog repository the wizard reads.
type Catalog interface {
	GetResort(ctx context.Context, id string) (*models.Resort, error)
	ListResorts(ctx context.Context) ([]models.Resort, error)
	GetOption(ctx context.Context, kind models.OptionKind, id string) (*models.Option, error)
}

// Wizard drives WizardSession values through the inquiry steps. It holds no
// per-session state, so one Wizard serves every session.
type Wizard struct {
	Constraints map[models.WizardStep]models.SelectionConstraint
	Catalog     Catalog
	PickBonus   int
	Now         func() time.Time
	NewID       func() string
}

// NewWizard returns a wizard using DefaultConstraints.
func NewWizard(catalog Catalog, pickBonus int) *Wizard {
	return &Wizard{
		Constraints: DefaultConstraints,
		Catalog:     catalog,
		PickBonus:   pickBonus,
		Now:         time.Now,
		NewID:       func() string { return uuid.New().String() },
	}
}

// NewSession starts a session on the first step.
func (w *Wizard) NewSession() *models.WizardSession {
	now := w.Now()
	return &models.WizardSession{
		ID:        w.NewID(),
		State:     models.StateOf(models.WizardSteps[0]),
		Answers:   make(map[models.WizardStep]models.Answer),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance validates the selection for the current step, stores it and moves
// to the next step. A rejected selection leaves the session untouched.
func (w *Wizard) Advance(ctx context.Context, s *models.WizardSession, step models.WizardStep, proposed []string) error {
	current, ok := s.State.Step()
	if !ok {
		return invalidTransition(s.State, "advance")
	}
	if step != current {
		return &ValidationError{
			Kind:    KindInvalidTransition,
			Step:    step,
			Message: fmt.Sprintf("session is on step %q", current),
		}
	}
	idx := current.Index()
	if idx == len(models.WizardSteps)-1 {
		return &ValidationError{
			Kind:    KindInvalidTransition,
			Step:    current,
			Message: "last step is completed by submitting",
		}
	}

	answer, err := Validate(current, proposed, w.Constraints[current])
	if err != nil {
		return err
	}
	if err := w.checkExists(ctx, answer); err != nil {
		return err
	}

	if s.Answers == nil {
		s.Answers = make(map[models.WizardStep]models.Answer)
	}
	s.Answers[current] = answer
	s.State = models.StateOf(models.WizardSteps[idx+1])
	s.UpdatedAt = w.Now()
	return nil
}

// Retreat moves back one step, keeping every stored answer.
func (w *Wizard) Retreat(s *models.WizardSession) error {
	current, ok := s.State.Step()
	if !ok {
		return invalidTransition(s.State, "retreat")
	}
	idx := current.Index()
	if idx == 0 {
		return &ValidationError{
			Kind:    KindInvalidTransition,
			Step:    current,
			Message: "already on the first step",
		}
	}
	s.State = models.StateOf(models.WizardSteps[idx-1])
	s.UpdatedAt = w.Now()
	return nil
}

// Submit completes the inquiry from the contact step. Contact details are kept
// on the session even when they are rejected so the form can be re-rendered.
func (w *Wizard) Submit(ctx context.Context, s *models.WizardSession, contact models.ContactDetails) (*models.SubmissionRecord, error) {
	last := models.WizardSteps[len(models.WizardSteps)-1]
	if current, ok := s.State.Step(); !ok || current != last {
		return nil, invalidTransition(s.State, "submit")
	}

	s.Contact = normalizeContact(contact)
	s.UpdatedAt = w.Now()

	answers := make([]models.Answer, 0, len(models.WizardSteps)-1)
	for _, step := range models.WizardSteps[:len(models.WizardSteps)-1] {
		ans, ok := s.Answers[step]
		if !ok {
			return nil, rejected(KindMissingAnswer, step, "step has no answer")
		}
		answers = append(answers, ans)
	}

	if fields := ValidateContact(s.Contact); len(fields) > 0 {
		return nil, &ValidationError{
			Kind:    KindFieldFormat,
			Step:    last,
			Message: "contact details are incomplete",
			Fields:  fields,
		}
	}

	resorts, err := w.Catalog.ListResorts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load resorts for matching: %w", err)
	}

	record := &models.SubmissionRecord{
		ID:          w.NewID(),
		SessionID:   s.ID,
		Answers:     answers,
		Contact:     s.Contact,
		Candidates:  Match(s.Answers, resorts, w.PickBonus),
		SubmittedAt: w.Now(),
	}
	s.State = models.StateSubmitted
	return record, nil
}

// Abandon ends a session without submitting it.
func (w *Wizard) Abandon(s *models.WizardSession) error {
	if s.State.Terminal() {
		return invalidTransition(s.State, "abandon")
	}
	s.State = models.StateAbandoned
	s.UpdatedAt = w.Now()
	return nil
}

// Preview ranks resorts against the answers stored so far.
func (w *Wizard) Preview(ctx context.Context, s *models.WizardSession) ([]models.MatchCandidate, error) {
	resorts, err := w.Catalog.ListResorts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load resorts for matching: %w", err)
	}
	return Match(s.Answers, resorts, w.PickBonus), nil
}

func (w *Wizard) checkExists(ctx context.Context, answer models.Answer) error {
	for _, id := range answer.Options {
		var err error
		switch answer.Step {
		case models.StepResortPicks:
			_, err = w.Catalog.GetResort(ctx, id)
		case models.StepPurpose:
			_, err = w.Catalog.GetOption(ctx, models.OptionPurpose, id)
		case models.StepExperiences:
			_, err = w.Catalog.GetOption(ctx, models.OptionExperience, id)
		case models.StepPreferences:
			_, err = w.Catalog.GetOption(ctx, models.OptionPreference, id)
		}
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return rejected(KindUnknownOption, answer.Step, "unknown option %q", id)
		}
		if err != nil {
			return fmt.Errorf("failed to look up option %q: %w", id, err)
		}
	}
	return nil
}

var validate = validator.New()

const dateLayout = "2006-01-02"

// ValidateContact returns one FieldError per rejected contact field.
func ValidateContact(c models.ContactDetails) []FieldError {
	var fields []FieldError
	if c.Name == "" {
		fields = append(fields, FieldError{Field: "name", Reason: "required"})
	}
	if c.Phone == "" {
		fields = append(fields, FieldError{Field: "phone", Reason: "required"})
	}
	if c.Email == "" {
		fields = append(fields, FieldError{Field: "email", Reason: "required"})
	} else if err := validate.Var(c.Email, "email"); err != nil {
		fields = append(fields, FieldError{Field: "email", Reason: "invalid email address"})
	}

	var arrival, departure time.Time
	var err error
	if c.Arrival != "" {
		if arrival, err = time.Parse(dateLayout, c.Arrival); err != nil {
			fields = append(fields, FieldError{Field: "arrival", Reason: "expected YYYY-MM-DD"})
		}
	}
	if c.Departure != "" {
		if departure, err = time.Parse(dateLayout, c.Departure); err != nil {
			fields = append(fields, FieldError{Field: "departure", Reason: "expected YYYY-MM-DD"})
		}
	}
	if !arrival.IsZero() && !departure.IsZero() && departure.Before(arrival) {
		fields = append(fields, FieldError{Field: "departure", Reason: "must not be before arrival"})
	}

	if c.Adults < 0 {
		fields = append(fields, FieldError{Field: "adults", Reason: "must not be negative"})
	}
	if c.Children < 0 {
		fields = append(fields, FieldError{Field: "children", Reason: "must not be negative"})
	}
	if c.MealPlan != "" && !c.MealPlan.Valid() {
		fields = append(fields, FieldError{Field: "mealPlan", Reason: "unknown meal plan"})
	}
	return fields
}

func normalizeContact(c models.ContactDetails) models.ContactDetails {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Arrival = strings.TrimSpace(c.Arrival)
	c.Departure = strings.TrimSpace(c.Departure)
	c.MealPlan = models.MealPlan(strings.ToLower(strings.TrimSpace(string(c.MealPlan))))
	c.Message = strings.TrimSpace(c.Message)
	return c
}
