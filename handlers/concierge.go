package handlers

import (
	"errors"
	"net/http"
	"time"

	"tradewinds/services/concierge"
	"tradewinds/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKindConcierge marks tokens issued for concierge sessions.
const SessionKindConcierge = "concierge"

// ConciergeHandler exposes the concierge chat.
type ConciergeHandler struct {
	Service  concierge.ConciergeService
	TokenTTL time.Duration
	Logger   *zap.Logger
}

func NewConciergeHandler(svc concierge.ConciergeService, tokenTTL time.Duration, logger *zap.Logger) *ConciergeHandler {
	return &ConciergeHandler{Service: svc, TokenTTL: tokenTTL, Logger: logger}
}

// StartSession handles POST /api/concierge/session.
func (h *ConciergeHandler) StartSession(c *gin.Context) {
	view, err := h.Service.StartSession(c.Request.Context())
	if err != nil {
		h.writeError(c, "StartSession", err)
		return
	}
	token, err := utils.GenerateSessionToken(view.ID, SessionKindConcierge, h.TokenTTL)
	if err != nil {
		getLogger(c, h.Logger).Error("StartSession: failed to sign session token", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to start session", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": view, "token": token})
}

// GetSession handles GET /api/concierge/session/:sessionID.
func (h *ConciergeHandler) GetSession(c *gin.Context) {
	view, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.writeError(c, "GetSession", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

// SubmitCredential handles POST /api/concierge/session/:sessionID/credential.
// The resulting auth state is returned on rejection too.
func (h *ConciergeHandler) SubmitCredential(c *gin.Context) {
	var body struct {
		Credential string `json:"credential" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	state, err := h.Service.SubmitCredential(c.Request.Context(), c.Param("sessionID"), body.Credential)
	if err != nil {
		if errors.Is(err, concierge.ErrSessionNotFound) {
			h.writeError(c, "SubmitCredential", err)
			return
		}
		c.JSON(conciergeStatus(err), gin.H{"error": err.Error(), "auth": state})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth": state})
}

// Disconnect handles DELETE /api/concierge/session/:sessionID/credential.
func (h *ConciergeHandler) Disconnect(c *gin.Context) {
	view, err := h.Service.Disconnect(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.writeError(c, "Disconnect", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

// Send handles POST /api/concierge/session/:sessionID/messages. A client that
// goes away mid-request abandons the provider call.
func (h *ConciergeHandler) Send(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	turn, err := h.Service.Send(c.Request.Context(), c.Param("sessionID"), body.Text)
	if err != nil {
		h.writeError(c, "Send", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"turn": turn})
}

// Reset handles POST /api/concierge/session/:sessionID/reset.
func (h *ConciergeHandler) Reset(c *gin.Context) {
	view, err := h.Service.Reset(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.writeError(c, "Reset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

// Abandon handles POST /api/concierge/session/:sessionID/abandon.
func (h *ConciergeHandler) Abandon(c *gin.Context) {
	cancelled, err := h.Service.Abandon(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.writeError(c, "Abandon", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}

// End handles DELETE /api/concierge/session/:sessionID.
func (h *ConciergeHandler) End(c *gin.Context) {
	if err := h.Service.End(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.writeError(c, "End", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConciergeHandler) writeError(c *gin.Context, op string, err error) {
	status := conciergeStatus(err)
	if status == http.StatusInternalServerError {
		getLogger(c, h.Logger).Error(op+": concierge operation failed",
			zap.String("sessionID", c.Param("sessionID")), zap.Error(err))
		utils.JSONError(c, status, "concierge operation failed", "")
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func conciergeStatus(err error) int {
	switch {
	case errors.Is(err, concierge.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, concierge.ErrAuthRequired), errors.Is(err, concierge.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, concierge.ErrBillingRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, concierge.ErrBusy), errors.Is(err, concierge.ErrValidationPending), errors.Is(err, concierge.ErrSessionReset):
		return http.StatusConflict
	case errors.Is(err, concierge.ErrEmptyUtterance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, concierge.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, concierge.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, concierge.ErrAbandoned):
		return http.StatusRequestTimeout
	case errors.Is(err, concierge.ErrProviderError), errors.Is(err, concierge.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
