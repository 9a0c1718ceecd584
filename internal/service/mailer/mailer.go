package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/ovotrace/ovotrace/internal/config"
	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/internal/repository/mongodb"
)

// Machine-readable error codes returned by the reset-password endpoint. The
// dashboard switches its user-facing message on these.
const (
	CodeEmailNotConfigured  = "EMAIL_NOT_CONFIGURED"
	CodeAppURLNotConfigured = "APP_URL_NOT_CONFIGURED"
	CodeSMTPFailed          = "SMTP_CONNECTION_FAILED"
	CodeEmailUnavailable    = "EMAIL_SERVICE_UNAVAILABLE"
	CodePermissionDenied    = "permission-denied"
	CodeInternal            = "INTERNAL"
)

const resetTokenTTL = time.Hour

// CodedError pairs a machine-readable code with the HTTP status the handler
// should answer with.
type CodedError struct {
	Code   string
	Status int
	cause  error
}

func (e *CodedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return e.Code
}

func (e *CodedError) Unwrap() error { return e.cause }

// UserStore is the user lookup surface the mailer needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (models.UserAccount, error)
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
}

// Sender delivers one message. Split out so tests can swap the SMTP dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Service sends password-reset mail over SMTP.
type Service struct {
	cfg    config.EmailConfig
	appURL string
	users  UserStore
	sender Sender
	logger *zap.Logger
	token  func() string
}

// NewService wires the mailer. Missing SMTP or base-URL configuration is not
// an error here: it is reported per request with an explicit code.
func NewService(cfg config.EmailConfig, appURL string, users UserStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	var sender Sender
	if cfg.Host != "" {
		sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}

	return &Service{
		cfg:    cfg,
		appURL: appURL,
		users:  users,
		sender: sender,
		logger: logger,
		token:  func() string { return uuid.NewString() },
	}
}

// SendPasswordReset issues a reset token for the address and mails the reset
// link. Every failure path returns a *CodedError so the handler can answer
// with the structured code the dashboard expects.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	if s.cfg.Host == "" || s.cfg.From == "" {
		return &CodedError{Code: CodeEmailNotConfigured, Status: http.StatusServiceUnavailable}
	}
	if s.appURL == "" {
		return &CodedError{Code: CodeAppURLNotConfigured, Status: http.StatusInternalServerError}
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, mongodb.ErrNotFound) {
		return &CodedError{Code: CodePermissionDenied, Status: http.StatusForbidden}
	}
	if err != nil {
		return &CodedError{Code: CodeInternal, Status: http.StatusInternalServerError, cause: err}
	}

	token := s.token()
	if err := s.users.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return &CodedError{Code: CodeInternal, Status: http.StatusInternalServerError, cause: err}
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimSuffix(s.appURL, "/"), token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "Reset your OvoTrace password")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account. "+
			"Open the link below within one hour to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n",
		user.DisplayName, link))

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error("smtp delivery failed", zap.Error(err))
		if strings.Contains(err.Error(), "dial") || strings.Contains(err.Error(), "connect") {
			return &CodedError{Code: CodeSMTPFailed, Status: http.StatusServiceUnavailable, cause: err}
		}
		return &CodedError{Code: CodeEmailUnavailable, Status: http.StatusServiceUnavailable, cause: err}
	}

	s.logger.Info("password reset mail sent", zap.String("user", user.ID))
	return nil
}
