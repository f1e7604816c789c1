package handlers

import (
	"errors"
	"net/http"
	"time"

	"tradewinds/models"
	"tradewinds/services/inquiry"
	"tradewinds/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKindInquiry marks tokens issued for wizard sessions.
const SessionKindInquiry = "inquiry"

// InquiryHandler exposes the inquiry wizard.
type InquiryHandler struct {
	Service  inquiry.InquiryService
	TokenTTL time.Duration
	Logger   *zap.Logger
}

func NewInquiryHandler(svc inquiry.InquiryService, tokenTTL time.Duration, logger *zap.Logger) *InquiryHandler {
	return &InquiryHandler{Service: svc, TokenTTL: tokenTTL, Logger: logger}
}

type wizardResponse struct {
	Session    *models.WizardSession       `json:"session"`
	Constraint *models.SelectionConstraint `json:"constraint,omitempty"`
	Token      string                      `json:"token,omitempty"`
}

func (h *InquiryHandler) respond(c *gin.Context, status int, session *models.WizardSession, token string) {
	resp := wizardResponse{Session: session, Token: token}
	if step, ok := session.State.Step(); ok && step != models.StepContactDetails {
		if constraint, ok := h.Service.Constraints()[step]; ok {
			resp.Constraint = &constraint
		}
	}
	c.JSON(status, resp)
}

// StartSession handles POST /api/inquiry/session.
func (h *InquiryHandler) StartSession(c *gin.Context) {
	session, err := h.Service.StartSession(c.Request.Context())
	if err != nil {
		h.writeError(c, "StartSession", err)
		return
	}
	token, err := utils.GenerateSessionToken(session.ID, SessionKindInquiry, h.TokenTTL)
	if err != nil {
		getLogger(c, h.Logger).Error("StartSession: failed to sign session token", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to start session", "")
		return
	}
	h.respond(c, http.StatusCreated, session, token)
}

// GetSession handles GET /api/inquiry/session/:sessionID.
func (h *InquiryHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.writeError(c, "GetSession", err)
		return
	}
	h.respond(c, http.StatusOK, session, "")
}

// Advance handles PUT /api/inquiry/session/:sessionID/advance.
func (h *InquiryHandler) Advance(c *gin.Context) {
	var body struct {
		Step       models.WizardStep `json:"step" binding:"required"`
		Selections []string          `json:"selections"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	session, err := h.Service.Advance(c.Request.Context(), c.Param("sessionID"), body.Step, body.Selections)
	if err != nil {
		h.writeError(c, "Advance", err)
		return
	}
	h.respond(c, http.StatusOK, session, "")
}

// Retreat handles PUT /api/inquiry/session/:sessionID/retreat.
func (h *InquiryHandler) Retreat(c *gin.Context) {
	session, err := h.Service.Retreat(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.writeError(c, "Retreat", err)
		return
	}
	h.respond(c, http.StatusOK, session, "")
}

// Matches handles GET /api/inquiry/session/:sessionID/matches.
func (h *InquiryHandler) Matches(c *gin.Context) {
	candidates, err := h.Service.Matches(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.writeError(c, "Matches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// Submit handles POST /api/inquiry/session/:sessionID/submit.
func (h *InquiryHandler) Submit(c *gin.Context) {
	var body struct {
		Contact models.ContactDetails `json:"contact"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	record, err := h.Service.Submit(c.Request.Context(), c.Param("sessionID"), body.Contact)
	if err != nil {
		h.writeError(c, "Submit", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"submissionID": record.ID,
		"candidates":   record.Candidates,
		"submittedAt":  record.SubmittedAt,
	})
}

// Abandon handles DELETE /api/inquiry/session/:sessionID.
func (h *InquiryHandler) Abandon(c *gin.Context) {
	if err := h.Service.Abandon(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.writeError(c, "Abandon", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InquiryHandler) writeError(c *gin.Context, op string, err error) {
	var verr *inquiry.ValidationError
	switch {
	case errors.As(err, &verr) && verr.Kind == inquiry.KindInvalidTransition:
		c.JSON(http.StatusConflict, gin.H{"error": verr})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr})
	case errors.Is(err, inquiry.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "inquiry session not found", "")
	default:
		getLogger(c, h.Logger).Error(op+": inquiry operation failed",
			zap.String("sessionID", c.Param("sessionID")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "inquiry operation failed", "")
	}
}
