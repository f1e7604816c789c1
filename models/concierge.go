package models

import "time"

// Role is the author of a concierge turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a concierge conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptEntry is what the provider gateway receives per turn.
type TranscriptEntry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// AuthStatus names the variant of an AuthState.
type AuthStatus string

const (
	AuthUnauthenticated   AuthStatus = "unauthenticated"
	AuthPendingValidation AuthStatus = "pendingValidation"
	AuthAuthenticated     AuthStatus = "authenticated"
	AuthBillingRequired   AuthStatus = "billingRequired"
	AuthError             AuthStatus = "error"
)

// AuthState is the concierge credential state. CredentialRef is set only for
// AuthAuthenticated and Reason only for AuthError.
type AuthState struct {
	Status        AuthStatus `json:"status"`
	CredentialRef string     `json:"credentialRef,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

func Unauthenticated() AuthState   { return AuthState{Status: AuthUnauthenticated} }
func PendingValidation() AuthState { return AuthState{Status: AuthPendingValidation} }
func BillingRequired() AuthState   { return AuthState{Status: AuthBillingRequired} }

func Authenticated(ref string) AuthState {
	return AuthState{Status: AuthAuthenticated, CredentialRef: ref}
}

func AuthFailed(reason string) AuthState {
	return AuthState{Status: AuthError, Reason: reason}
}

// IsAuthenticated reports whether the assistant may be used.
func (a AuthState) IsAuthenticated() bool {
	return a.Status == AuthAuthenticated
}

// ConciergeSnapshot is the persisted form of a concierge session.
type ConciergeSnapshot struct {
	ID               string    `json:"id"`
	Turns            []Turn    `json:"turns"`
	Auth             AuthState `json:"auth"`
	SealedCredential string    `json:"sealedCredential,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ConciergeView is what clients see of a session.
type ConciergeView struct {
	ID    string    `json:"id"`
	Turns []Turn    `json:"turns"`
	Auth  AuthState `json:"auth"`
	Busy  bool      `json:"busy"`
}
