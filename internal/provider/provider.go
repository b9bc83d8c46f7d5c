package provider

import (
	"context"

	"github.com/invopost/invoice-dispatch/internal/domain"
)

// Provider is the outbound delivery port for one notification channel.
// Implementations own their timeout policy and are invoked exactly once per
// dispatch call, with no retries.
type Provider interface {
	Channel() domain.Channel
	Send(ctx context.Context, msg Message) (*Response, error)
}

// Message is the channel-agnostic delivery envelope. Email providers use
// the subject, body, and attachment; SMS providers use the body and link.
type Message struct {
	Recipient      string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
	LinkURL        string
}

// Response stores provider call metadata surfaced in channel outcomes.
type Response struct {
	StatusCode int
	Body       string
	MessageID  string
}
