package mailer

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/ovotrace/ovotrace/internal/config"
	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/internal/repository/mongodb"
)

type stubUserStore struct {
	user       models.UserAccount
	savedToken string
}

func (s *stubUserStore) FindUserByEmail(_ context.Context, email string) (models.UserAccount, error) {
	if s.user.Email == email {
		return s.user, nil
	}
	return models.UserAccount{}, mongodb.ErrNotFound
}

func (s *stubUserStore) SetResetToken(_ context.Context, _ string, token string, _ time.Time) error {
	s.savedToken = token
	return nil
}

type stubSender struct {
	err  error
	sent []*gomail.Message
}

func (s *stubSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func testMailer(sender Sender) (*Service, *stubUserStore) {
	store := &stubUserStore{user: models.UserAccount{
		ID:          "u-1",
		Email:       "owner@example.com",
		DisplayName: "Owner",
	}}

	cfg := config.EmailConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"}
	svc := NewService(cfg, "https://app.example.com", store, zap.NewNop())
	svc.sender = sender
	svc.token = func() string { return "tok-1" }
	return svc, store
}

func codedError(t *testing.T, err error) *CodedError {
	t.Helper()
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	return coded
}

func TestSendPasswordResetDialFailure(t *testing.T) {
	svc, _ := testMailer(&stubSender{err: errors.New("dial tcp 10.0.0.1:587: connect: connection refused")})

	err := svc.SendPasswordReset(context.Background(), "owner@example.com")

	coded := codedError(t, err)
	assert.Equal(t, CodeSMTPFailed, coded.Code)
	assert.Equal(t, http.StatusServiceUnavailable, coded.Status)
}

func TestSendPasswordResetServerRejection(t *testing.T) {
	svc, _ := testMailer(&stubSender{err: errors.New("450 4.2.1 mailbox temporarily unavailable")})

	err := svc.SendPasswordReset(context.Background(), "owner@example.com")

	coded := codedError(t, err)
	assert.Equal(t, CodeEmailUnavailable, coded.Code)
	assert.Equal(t, http.StatusServiceUnavailable, coded.Status)
}

func TestSendPasswordResetDelivers(t *testing.T) {
	sender := &stubSender{}
	svc, store := testMailer(sender)

	require.NoError(t, svc.SendPasswordReset(context.Background(), "owner@example.com"))

	assert.Equal(t, "tok-1", store.savedToken)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, sender.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"no-reply@example.com"}, sender.sent[0].GetHeader("From"))
}
