package messaging

import (
	"context"
	"errors"
	"strings"
)

// Message carries the data required to push one SMS.
type Message struct {
	To   string
	From string
	Body string
}

// Sender delivers a single SMS and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return errors.New("messaging: to required")
	}
	if strings.TrimSpace(m.From) == "" {
		return errors.New("messaging: from required")
	}
	if strings.TrimSpace(m.Body) == "" {
		return errors.New("messaging: body required")
	}
	return nil
}

// SMSNotifier adapts a Sender to the appointment scheduler's messenger contract.
type SMSNotifier struct {
	sender Sender
	from   string
}

// NewSMSNotifier sends from the given number. Senders that carry their own
// default (Twilio) accept a blank from.
func NewSMSNotifier(sender Sender, from string) *SMSNotifier {
	if sender == nil {
		panic("messaging: sender required")
	}
	return &SMSNotifier{sender: sender, from: from}
}

func (n *SMSNotifier) SendSMS(ctx context.Context, to, body string) (string, error) {
	return n.sender.Send(ctx, Message{To: NormalizeE164(to), From: n.from, Body: body})
}
