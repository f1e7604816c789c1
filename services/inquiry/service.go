package inquiry

import (
	"context"
	"errors"
	"fmt"

	"tradewinds/metrics"
	"tradewinds/models"

	"go.uber.org/zap"
)

// SubmissionSink receives every submission record exactly once per submit.
// Delivery to the agency (mail, CRM, storage) happens behind it.
type SubmissionSink interface {
	Emit(ctx context.Context, record models.SubmissionRecord) error
}

// InquiryService runs wizard sessions on behalf of the HTTP layer.
type InquiryService interface {
	StartSession(ctx context.Context) (*models.WizardSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Advance(ctx context.Context, sessionID string, step models.WizardStep, selections []string) (*models.WizardSession, error)
	Retreat(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Matches(ctx context.Context, sessionID string) ([]models.MatchCandidate, error)
	Submit(ctx context.Context, sessionID string, contact models.ContactDetails) (*models.SubmissionRecord, error)
	Abandon(ctx context.Context, sessionID string) error
	Constraints() map[models.WizardStep]models.SelectionConstraint
}

// DefaultInquiryService implements InquiryService.
type DefaultInquiryService struct {
	Wizard *Wizard
	Store  SessionStore
	Sink   SubmissionSink
	Logger *zap.Logger
}

func NewInquiryService(wizard *Wizard, store SessionStore, sink SubmissionSink, logger *zap.Logger) *DefaultInquiryService {
	return &DefaultInquiryService{Wizard: wizard, Store: store, Sink: sink, Logger: logger}
}

func (s *DefaultInquiryService) Constraints() map[models.WizardStep]models.SelectionConstraint {
	return s.Wizard.Constraints
}

// StartSession creates and stores a new session on the first step.
func (s *DefaultInquiryService) StartSession(ctx context.Context) (*models.WizardSession, error) {
	session := s.Wizard.NewSession()
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	metrics.InquirySessions.WithLabelValues("started").Inc()
	s.Logger.Debug("inquiry session started", zap.String("sessionID", session.ID))
	return session, nil
}

func (s *DefaultInquiryService) GetSession(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.Store.Get(ctx, sessionID)
}

func (s *DefaultInquiryService) Advance(ctx context.Context, sessionID string, step models.WizardStep, selections []string) (*models.WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.Wizard.Advance(ctx, session, step, selections); err != nil {
		s.observe("advance", err)
		return nil, err
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.observe("advance", nil)
	s.Logger.Debug("inquiry step answered",
		zap.String("sessionID", sessionID),
		zap.String("step", string(step)),
		zap.String("next", string(session.State)),
	)
	return session, nil
}

func (s *DefaultInquiryService) Retreat(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.Wizard.Retreat(session); err != nil {
		s.observe("retreat", err)
		return nil, err
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.observe("retreat", nil)
	return session, nil
}

// Matches ranks the catalog against the answers stored so far. Results are
// recomputed on each call.
func (s *DefaultInquiryService) Matches(ctx context.Context, sessionID string) ([]models.MatchCandidate, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Wizard.Preview(ctx, session)
}

// Submit finalizes the session and hands the record to the sink. If the sink
// refuses the record the session stays on the contact step.
func (s *DefaultInquiryService) Submit(ctx context.Context, sessionID string, contact models.ContactDetails) (*models.SubmissionRecord, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	record, err := s.Wizard.Submit(ctx, session, contact)
	if err != nil {
		s.observe("submit", err)
		var verr *ValidationError
		if errors.As(err, &verr) && verr.Kind == KindFieldFormat {
			if saveErr := s.Store.Save(ctx, session); saveErr != nil {
				s.Logger.Warn("failed to keep rejected contact details", zap.String("sessionID", sessionID), zap.Error(saveErr))
			}
		}
		return nil, err
	}

	if err := s.Sink.Emit(ctx, *record); err != nil {
		s.observe("submit", err)
		s.Logger.Error("failed to emit submission", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, fmt.Errorf("failed to deliver inquiry: %w", err)
	}

	if err := s.Store.Delete(ctx, sessionID); err != nil {
		s.Logger.Warn("failed to remove submitted session", zap.String("sessionID", sessionID), zap.Error(err))
	}
	s.observe("submit", nil)
	metrics.InquirySessions.WithLabelValues("submitted").Inc()
	s.Logger.Info("inquiry submitted",
		zap.String("sessionID", sessionID),
		zap.String("submissionID", record.ID),
		zap.Int("candidates", len(record.Candidates)),
	)
	return record, nil
}

// Abandon discards the session. Nothing else is affected.
func (s *DefaultInquiryService) Abandon(ctx context.Context, sessionID string) error {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.Wizard.Abandon(session); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		return err
	}
	metrics.InquirySessions.WithLabelValues("abandoned").Inc()
	s.Logger.Debug("inquiry session abandoned", zap.String("sessionID", sessionID))
	return nil
}

func (s *DefaultInquiryService) observe(op string, err error) {
	outcome := "ok"
	var verr *ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		outcome = string(verr.Kind)
	default:
		outcome = "error"
	}
	metrics.WizardTransitions.WithLabelValues(op, outcome).Inc()
}
