package concierge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tradewinds/models"
)

// SessionDeps are the collaborators shared by every session.
type SessionDeps struct {
	Validator CredentialValidator
	Gateways  GatewayFactory
	Welcome   string
	Now       func() time.Time
}

// Session is one concierge conversation. Methods are safe for concurrent use;
// at most one provider call is outstanding at a time and a second Send while
// one is pending returns ErrBusy.
type Session struct {
	mu   sync.Mutex
	deps SessionDeps

	id         string
	turns      []models.Turn
	gate       AuthGate
	busy       bool
	epoch      uint64
	cancel     context.CancelFunc
	abandoned  bool
	gateway    Gateway
	credential string
	lastUsed   time.Time
	evicted    bool
}

// NewSession creates an unauthenticated session seeded with the welcome turn.
func NewSession(id string, deps SessionDeps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Session{id: id, deps: deps, gate: NewAuthGate()}
	s.seedLocked()
	return s
}

func (s *Session) ID() string { return s.id }

// Auth returns the current auth state.
func (s *Session) Auth() models.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.State()
}

// Busy reports whether a provider call or credential validation is pending.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy || s.gate.Pending()
}

// Turns returns a copy of the history, oldest first.
func (s *Session) Turns() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Turn(nil), s.turns...)
}

// View is the client-facing state of the session.
func (s *Session) View() models.ConciergeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ConciergeView{
		ID:    s.id,
		Turns: append([]models.Turn(nil), s.turns...),
		Auth:  s.gate.State(),
		Busy:  s.busy || s.gate.Pending(),
	}
}

// Send appends the utterance, asks the provider for a reply with the whole
// history and appends the reply. On failure the history is left exactly as it
// was before the call.
func (s *Session) Send(ctx context.Context, utterance string) (models.Turn, error) {
	text := strings.TrimSpace(utterance)

	s.mu.Lock()
	if s.evicted {
		s.mu.Unlock()
		return models.Turn{}, errSessionEvicted
	}
	if !s.gate.State().IsAuthenticated() || s.gateway == nil {
		s.mu.Unlock()
		return models.Turn{}, ErrAuthRequired
	}
	if s.busy {
		s.mu.Unlock()
		return models.Turn{}, ErrBusy
	}
	if text == "" {
		s.mu.Unlock()
		return models.Turn{}, ErrEmptyUtterance
	}

	s.turns = append(s.turns, models.Turn{Role: models.RoleUser, Text: text, Timestamp: s.deps.Now()})
	transcript := make([]models.TranscriptEntry, len(s.turns))
	for i, t := range s.turns {
		transcript[i] = models.TranscriptEntry{Role: t.Role, Text: t.Text}
	}
	callCtx, cancel := context.WithCancel(ctx)
	s.busy = true
	s.cancel = cancel
	s.abandoned = false
	s.lastUsed = s.deps.Now()
	epoch := s.epoch
	gateway := s.gateway
	s.mu.Unlock()

	reply, err := gateway.Complete(callCtx, transcript)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		// Reset or disconnect already cleared history and busy.
		return models.Turn{}, ErrSessionReset
	}
	abandoned := s.abandoned
	s.busy = false
	s.cancel = nil
	s.abandoned = false

	if err != nil {
		s.turns = s.turns[:len(s.turns)-1]
		return models.Turn{}, sendError(ctx, abandoned, err)
	}

	turn := models.Turn{Role: models.RoleAssistant, Text: reply, Timestamp: s.deps.Now()}
	s.turns = append(s.turns, turn)
	return turn, nil
}

func sendError(ctx context.Context, abandoned bool, err error) error {
	switch {
	case abandoned, errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		return ErrAbandoned
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrRateLimited), errors.Is(err, ErrProviderError):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrProviderError, err)
	}
}

// Reset clears history and the busy flag and seeds the welcome turn. The auth
// state is kept. A reply still in flight is cancelled and discarded.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		return errSessionEvicted
	}
	s.dropInFlightLocked()
	s.seedLocked()
	return nil
}

// Abandon cancels an in-flight provider call because the user navigated away.
// It reports whether there was one.
func (s *Session) Abandon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.busy || s.cancel == nil {
		return false
	}
	s.abandoned = true
	s.cancel()
	return true
}

// SubmitCredential validates a credential and settles the auth state. The
// session is busy for the duration and a second submission is rejected with
// ErrValidationPending.
func (s *Session) SubmitCredential(ctx context.Context, credential string) (models.AuthState, error) {
	credential = strings.TrimSpace(credential)

	s.mu.Lock()
	if s.evicted {
		state := s.gate.State()
		s.mu.Unlock()
		return state, errSessionEvicted
	}
	if s.busy {
		state := s.gate.State()
		s.mu.Unlock()
		return state, ErrBusy
	}
	if err := s.gate.Begin(); err != nil {
		state := s.gate.State()
		s.mu.Unlock()
		return state, err
	}
	previous := s.gateway
	s.gateway = nil
	s.credential = ""
	s.lastUsed = s.deps.Now()
	s.mu.Unlock()
	if previous != nil {
		closeGateway(previous)
	}

	v, err := s.deps.Validator.Validate(ctx, credential)
	var gateway Gateway
	if err == nil && v.Valid && v.BillingEnabled {
		gateway, err = s.deps.Gateways(ctx, credential)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		// Ended while validating.
		if gateway != nil {
			closeGateway(gateway)
		}
		return s.gate.State(), errSessionEvicted
	}
	settleErr := s.gate.Settle(CredentialRef(credential), v, err)
	if settleErr == nil {
		s.gateway = gateway
		s.credential = credential
	}
	return s.gate.State(), settleErr
}

// Disconnect returns to Unauthenticated and forgets the credential. A reply in
// flight is cancelled and discarded; the history is kept.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		return errSessionEvicted
	}
	if err := s.gate.Disconnect(); err != nil {
		return err
	}
	if s.busy {
		s.dropInFlightLocked()
		s.turns = s.turns[:len(s.turns)-1]
	}
	if s.gateway != nil {
		closeGateway(s.gateway)
	}
	s.gateway = nil
	s.credential = ""
	return nil
}

// touch marks the session as used. It reports false once the session has
// been evicted, in which case the caller must look it up again.
func (s *Session) touch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		return false
	}
	s.lastUsed = s.deps.Now()
	return true
}

// evictIfIdle releases the session when it has been idle since before cutoff.
// Busy sessions and pending validations are never evicted.
func (s *Session) evictIfIdle(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted || s.busy || s.gate.Pending() || !s.lastUsed.Before(cutoff) {
		return false
	}
	s.evictLocked()
	return true
}

// end cancels any pending reply and releases the session for good.
func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		s.dropInFlightLocked()
	}
	s.evictLocked()
}

func (s *Session) evictLocked() {
	s.evicted = true
	if s.gateway != nil {
		closeGateway(s.gateway)
		s.gateway = nil
	}
}

// snapshot returns the persisted view plus the raw credential to be sealed.
func (s *Session) snapshot() (models.ConciergeSnapshot, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append([]models.Turn(nil), s.turns...)
	if s.busy && len(turns) > 0 {
		// The pending user turn is not committed yet.
		turns = turns[:len(turns)-1]
	}
	return models.ConciergeSnapshot{
		ID:        s.id,
		Turns:     turns,
		Auth:      s.gate.State(),
		UpdatedAt: s.deps.Now(),
	}, s.credential
}

// RestoreSession rebuilds a session from a snapshot. An authenticated snapshot
// needs its credential to rebuild the gateway; without it the session falls
// back to Unauthenticated.
func RestoreSession(ctx context.Context, snap models.ConciergeSnapshot, credential string, deps SessionDeps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Session{
		id:       snap.ID,
		deps:     deps,
		gate:     NewAuthGate(),
		turns:    append([]models.Turn(nil), snap.Turns...),
		lastUsed: deps.Now(),
	}
	s.gate.restore(snap.Auth)
	if s.gate.State().IsAuthenticated() {
		if credential == "" {
			s.gate.restore(models.Unauthenticated())
			return s
		}
		gateway, err := deps.Gateways(ctx, credential)
		if err != nil {
			s.gate.restore(models.AuthFailed(ReasonTransport))
			return s
		}
		s.gateway = gateway
		s.credential = credential
	}
	return s
}

func (s *Session) dropInFlightLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	s.epoch++
	s.busy = false
	s.cancel = nil
	s.abandoned = false
}

func (s *Session) seedLocked() {
	now := s.deps.Now()
	s.turns = []models.Turn{{Role: models.RoleAssistant, Text: s.deps.Welcome, Timestamp: now}}
	s.lastUsed = now
}
