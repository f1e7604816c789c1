package concierge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tradewinds/metrics"
	"tradewinds/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConciergeService keeps live sessions in memory and mirrors every change
// into the snapshot store.
type ConciergeService interface {
	StartSession(ctx context.Context) (models.ConciergeView, error)
	GetSession(ctx context.Context, sessionID string) (models.ConciergeView, error)
	SubmitCredential(ctx context.Context, sessionID, credential string) (models.AuthState, error)
	Disconnect(ctx context.Context, sessionID string) (models.ConciergeView, error)
	Send(ctx context.Context, sessionID, text string) (models.Turn, error)
	Reset(ctx context.Context, sessionID string) (models.ConciergeView, error)
	Abandon(ctx context.Context, sessionID string) (bool, error)
	End(ctx context.Context, sessionID string) error
}

// DefaultConciergeService implements ConciergeService.
type DefaultConciergeService struct {
	mu       sync.Mutex
	sessions map[string]*Session

	deps   SessionDeps
	store  SnapshotStore
	sealer *Sealer
	logger *zap.Logger
}

func NewConciergeService(deps SessionDeps, store SnapshotStore, sealer *Sealer, logger *zap.Logger) *DefaultConciergeService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &DefaultConciergeService{
		sessions: make(map[string]*Session),
		deps:     deps,
		store:    store,
		sealer:   sealer,
		logger:   logger,
	}
}

func (s *DefaultConciergeService) StartSession(ctx context.Context) (models.ConciergeView, error) {
	session := NewSession(uuid.New().String(), s.deps)
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	if err := s.persist(ctx, session); err != nil {
		return models.ConciergeView{}, err
	}
	s.logger.Debug("concierge session started", zap.String("sessionID", session.ID()))
	return session.View(), nil
}

func (s *DefaultConciergeService) GetSession(ctx context.Context, sessionID string) (models.ConciergeView, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return models.ConciergeView{}, err
	}
	return session.View(), nil
}

func (s *DefaultConciergeService) SubmitCredential(ctx context.Context, sessionID, credential string) (models.AuthState, error) {
	var state models.AuthState
	var authErr error
	session, err := s.withSession(ctx, sessionID, func(session *Session) error {
		state, authErr = session.SubmitCredential(ctx, credential)
		return authErr
	})
	if session == nil {
		return models.AuthState{}, err
	}
	if errors.Is(authErr, ErrValidationPending) || errors.Is(authErr, ErrBusy) {
		return state, authErr
	}
	metrics.AuthTransitions.WithLabelValues(string(state.Status)).Inc()
	s.logger.Info("concierge credential settled",
		zap.String("sessionID", sessionID),
		zap.String("status", string(state.Status)),
		zap.String("reason", state.Reason),
	)
	if err := s.persist(ctx, session); err != nil {
		return state, err
	}
	return state, authErr
}

func (s *DefaultConciergeService) Disconnect(ctx context.Context, sessionID string) (models.ConciergeView, error) {
	session, err := s.withSession(ctx, sessionID, (*Session).Disconnect)
	if session == nil {
		return models.ConciergeView{}, err
	}
	if err != nil {
		return session.View(), err
	}
	if err := s.persist(ctx, session); err != nil {
		return models.ConciergeView{}, err
	}
	return session.View(), nil
}

func (s *DefaultConciergeService) Send(ctx context.Context, sessionID, text string) (models.Turn, error) {
	var turn models.Turn
	session, sendErr := s.withSession(ctx, sessionID, func(session *Session) error {
		var err error
		turn, err = session.Send(ctx, text)
		return err
	})
	if session == nil {
		return models.Turn{}, sendErr
	}
	metrics.ConciergeSends.WithLabelValues(sendOutcome(sendErr)).Inc()

	switch {
	case sendErr == nil:
	case errors.Is(sendErr, ErrAbandoned):
		s.logger.Info("concierge request abandoned", zap.String("sessionID", sessionID))
		return models.Turn{}, sendErr
	case errors.Is(sendErr, ErrAuthRequired), errors.Is(sendErr, ErrBusy), errors.Is(sendErr, ErrEmptyUtterance),
		errors.Is(sendErr, ErrSessionReset):
		return models.Turn{}, sendErr
	default:
		s.logger.Warn("concierge provider call failed", zap.String("sessionID", sessionID), zap.Error(sendErr))
		return models.Turn{}, sendErr
	}

	// The reply is already committed in memory; a failed mirror only costs
	// durability, so it is logged rather than returned.
	if err := s.persist(context.WithoutCancel(ctx), session); err != nil {
		s.logger.Error("failed to persist concierge session", zap.String("sessionID", sessionID), zap.Error(err))
	}
	return turn, nil
}

func (s *DefaultConciergeService) Reset(ctx context.Context, sessionID string) (models.ConciergeView, error) {
	session, err := s.withSession(ctx, sessionID, (*Session).Reset)
	if err != nil {
		return models.ConciergeView{}, err
	}
	if err := s.persist(ctx, session); err != nil {
		return models.ConciergeView{}, err
	}
	return session.View(), nil
}

// Abandon reports a navigation away from the session. It returns whether a
// request was in flight.
func (s *DefaultConciergeService) Abandon(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return false, err
	}
	abandoned := session.Abandon()
	if abandoned {
		s.logger.Info("concierge abandonment requested", zap.String("sessionID", sessionID))
	}
	return abandoned, nil
}

// End closes the session for good: a reply in flight is discarded, the
// gateway is closed and the snapshot is removed from the store.
func (s *DefaultConciergeService) End(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok {
		session.end()
	} else if _, err := s.store.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear concierge session %s: %w", sessionID, err)
	}
	s.logger.Info("concierge session ended", zap.String("sessionID", sessionID))
	return nil
}

// Sweep drops sessions idle since before cutoff from memory. Their snapshots
// stay in the store until they expire.
func (s *DefaultConciergeService) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.evictIfIdle(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *DefaultConciergeService) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.deps.Now().Add(-idle)); n > 0 {
				s.logger.Debug("concierge sessions evicted from memory", zap.Int("count", n))
			}
		}
	}
}

// withSession runs op against the live session. A session evicted between
// lookup and op is looked up once more; a second eviction reports it gone.
func (s *DefaultConciergeService) withSession(ctx context.Context, sessionID string, op func(*Session) error) (*Session, error) {
	for attempt := 0; attempt < 2; attempt++ {
		session, err := s.session(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if err := op(session); !errors.Is(err, errSessionEvicted) {
			return session, err
		}
	}
	return nil, ErrSessionNotFound
}

// session returns the live session, restoring it from the store if needed.
// A session found in memory is touched under its own lock so the janitor
// cannot evict it between lookup and use.
func (s *DefaultConciergeService) session(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	if session, ok := s.sessions[sessionID]; ok {
		if session.touch() {
			s.mu.Unlock()
			return session, nil
		}
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	snap, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	credential := ""
	if snap.SealedCredential != "" {
		credential, err = s.sealer.Open(snap.ID, snap.SealedCredential)
		if err != nil {
			s.logger.Warn("dropping unreadable concierge credential", zap.String("sessionID", sessionID), zap.Error(err))
			credential = ""
		}
	}
	restored := RestoreSession(ctx, *snap, credential, s.deps)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[sessionID]; ok {
		return existing, nil
	}
	s.sessions[sessionID] = restored
	return restored, nil
}

func (s *DefaultConciergeService) persist(ctx context.Context, session *Session) error {
	snap, credential := session.snapshot()
	if credential != "" {
		sealed, err := s.sealer.Seal(snap.ID, credential)
		if err != nil {
			return err
		}
		snap.SealedCredential = sealed
	}
	return s.store.Set(ctx, &snap)
}

func sendOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthRequired):
		return "auth_required"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrAbandoned):
		return "abandoned"
	case errors.Is(err, ErrProviderError):
		return "provider_error"
	}
	return "rejected"
}
