package mailer

import "context"

// Message is a single outbound email.
type Message struct {
	ToName   string
	ToEmail  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Noop discards all messages. Used when the mailer is disabled.
type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }
