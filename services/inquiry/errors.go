package inquiry

import (
	"errors"
	"fmt"
	"strings"

	"tradewinds/models"
)

// ReasonKind classifies a rejected wizard operation.
type ReasonKind string

const (
	KindTooMany           ReasonKind = "tooMany"
	KindTooFew            ReasonKind = "tooFew"
	KindSkipNotAllowed    ReasonKind = "skipNotAllowed"
	KindUnknownOption     ReasonKind = "unknownOption"
	KindInvalidTransition ReasonKind = "invalidTransition"
	KindMissingAnswer     ReasonKind = "missingAnswer"
	KindFieldFormat       ReasonKind = "fieldFormat"
)

// FieldError describes one rejected contact field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned for every recoverable wizard rejection.
type ValidationError struct {
	Kind    ReasonKind        `json:"kind"`
	Step    models.WizardStep `json:"step,omitempty"`
	Message string            `json:"message"`
	Fields  []FieldError      `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Step != "" {
		fmt.Fprintf(&b, " (%s)", e.Step)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s: %s", f.Field, f.Reason)
	}
	return b.String()
}

// Is matches any ValidationError of the same kind, so callers can write
// errors.Is(err, inquiry.ErrTooMany).
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrTooMany           = &ValidationError{Kind: KindTooMany}
	ErrTooFew            = &ValidationError{Kind: KindTooFew}
	ErrSkipNotAllowed    = &ValidationError{Kind: KindSkipNotAllowed}
	ErrUnknownOption     = &ValidationError{Kind: KindUnknownOption}
	ErrInvalidTransition = &ValidationError{Kind: KindInvalidTransition}
	ErrMissingAnswer     = &ValidationError{Kind: KindMissingAnswer}
	ErrFieldFormat       = &ValidationError{Kind: KindFieldFormat}

	// ErrSessionNotFound is returned when a wizard session expired or never existed.
	ErrSessionNotFound = errors.New("inquiry session not found or expired")
)

func rejected(kind ReasonKind, step models.WizardStep, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Step: step, Message: fmt.Sprintf(format, args...)}
}

func invalidTransition(state models.WizardState, op string) *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot %s from state %q", op, state),
	}
}
