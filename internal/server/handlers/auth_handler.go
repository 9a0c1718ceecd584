package handlers

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/service/mailer"
)

// AuthHandler serves the password-reset endpoint.
type AuthHandler struct {
	mailer *mailer.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter for auth flows.
func NewAuthHandler(m *mailer.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{mailer: m, logger: logger}
}

type resetPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPassword triggers a password-reset mail. Validation happens before
// any network call; delivery failures answer with the structured codes the
// dashboard switches on.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	if err := h.mailer.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		var coded *mailer.CodedError
		if errors.As(err, &coded) {
			h.logger.Warn("password reset failed", zap.String("code", coded.Code), zap.Error(err))
			c.JSON(coded.Status, gin.H{"error": coded.Code})
			return
		}
		h.logger.Error("password reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": mailer.CodeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
