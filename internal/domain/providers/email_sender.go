package providers

import (
	"context"
)

// EmailAttachment references a stored document attached to an outbound mail
type EmailAttachment struct {
	Name string
	URL  string
}

// EmailSender delivers outbound mail. Delivery is best effort: callers log
// the attempt as a communication entry regardless of the outcome.
type EmailSender interface {
	// Send attempts delivery and reports whether the mail actually went out
	Send(ctx context.Context, recipient, subject, body string, attachments []EmailAttachment) (bool, error)
}
