package messaging

import (
	"context"
	"errors"
)

// ErrChannelUnsupported is returned by providers that cannot serve a channel;
// the dispatcher falls back to SMS in that case.
var ErrChannelUnsupported = errors.New("channel not supported by provider")

// Provider delivers text messages to emergency contacts over WhatsApp or
// plain SMS.
type Provider interface {
	SendWhatsApp(ctx context.Context, to, message string) (*SendResult, error)
	SendSMS(ctx context.Context, to, message string) (*SendResult, error)
}

type SendResult struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}
