package notifications

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/domusvita/careflow/backend/internal/domain/providers"
)

// MockEmailSender logs outbound mail instead of delivering it. Used until a
// real SMTP relay is configured; the communication log records the attempt
// either way.
type MockEmailSender struct{}

// NewMockEmailSender creates a no-op email sender
func NewMockEmailSender() providers.EmailSender {
	return &MockEmailSender{}
}

// Send logs the mail and reports it as not delivered
func (s *MockEmailSender) Send(ctx context.Context, recipient, subject, body string, attachments []providers.EmailAttachment) (bool, error) {
	log.Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Int("attachments", len(attachments)).
		Msg("email delivery mocked, not sent")
	return false, nil
}
