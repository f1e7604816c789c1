package concierge

import (
	"errors"

	"tradewinds/models"
)

// Error reasons carried by AuthError states.
const (
	ReasonInvalidCredential = "invalid-credential"
	ReasonTransport         = "transport-error"
)

// AuthGate owns the AuthState of one concierge session. State changes only
// through its methods.
type AuthGate struct {
	state models.AuthState
}

// NewAuthGate starts unauthenticated.
func NewAuthGate() AuthGate {
	return AuthGate{state: models.Unauthenticated()}
}

func (g *AuthGate) State() models.AuthState {
	return g.state
}

// Pending reports whether a validation is in flight.
func (g *AuthGate) Pending() bool {
	return g.state.Status == models.AuthPendingValidation
}

// Begin moves to PendingValidation for a newly submitted credential.
func (g *AuthGate) Begin() error {
	if g.Pending() {
		return ErrValidationPending
	}
	g.state = models.PendingValidation()
	return nil
}

// Settle resolves a pending validation. It returns the error the UI should
// show, or nil when the credential was accepted.
func (g *AuthGate) Settle(credentialRef string, v Validation, err error) error {
	if !g.Pending() {
		return ErrValidationPending
	}
	switch {
	case err != nil:
		g.state = models.AuthFailed(ReasonTransport)
		if errors.Is(err, ErrTransport) {
			return err
		}
		return errors.Join(ErrTransport, err)
	case !v.Valid:
		g.state = models.AuthFailed(ReasonInvalidCredential)
		return ErrInvalidCredential
	case !v.BillingEnabled:
		g.state = models.BillingRequired()
		return ErrBillingRequired
	default:
		g.state = models.Authenticated(credentialRef)
		return nil
	}
}

// Disconnect forgets the credential. It is refused while a validation is
// pending.
func (g *AuthGate) Disconnect() error {
	if g.Pending() {
		return ErrValidationPending
	}
	g.state = models.Unauthenticated()
	return nil
}

// restore replaces the state from a snapshot. A snapshot taken mid-validation
// cannot be resumed, so it comes back as a transport error.
func (g *AuthGate) restore(state models.AuthState) {
	if state.Status == models.AuthPendingValidation {
		state = models.AuthFailed(ReasonTransport)
	}
	g.state = state
}
