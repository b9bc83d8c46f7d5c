package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/invopost/invoice-dispatch/internal/domain"
)

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// SMSAPIProvider delivers invoice texts through an HTTP SMS gateway. The
// message body carries the artifact download link; the attachment itself is
// never sent over SMS.
type SMSAPIProvider struct {
	client   *resty.Client
	endpoint string
	apiKey   string
	from     string
}

func NewSMSAPIProvider(endpoint, apiKey, from string) (*SMSAPIProvider, error) {
	client := resty.New()
	client.SetTimeout(defaultProviderTimeout)
	client.SetRetryCount(0)

	return NewSMSAPIProviderWithClient(endpoint, apiKey, from, client)
}

func NewSMSAPIProviderWithClient(endpoint, apiKey, from string, client *resty.Client) (*SMSAPIProvider, error) {
	trimmedEndpoint, err := validateEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultProviderTimeout)
	}
	client.SetRetryCount(0)

	return &SMSAPIProvider{
		client:   client,
		endpoint: trimmedEndpoint,
		apiKey:   strings.TrimSpace(apiKey),
		from:     strings.TrimSpace(from),
	}, nil
}

func (p *SMSAPIProvider) Channel() domain.Channel { return domain.ChannelSMS }

func (p *SMSAPIProvider) Send(ctx context.Context, msg Message) (*Response, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if strings.TrimSpace(msg.Recipient) == "" {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	}

	req := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(smsRequest{
			From: p.from,
			To:   msg.Recipient,
			Body: msg.Body,
		})
	if p.apiKey != "" {
		req.SetHeader("Authorization", "Bearer "+p.apiKey)
	}

	response, err := req.Post(p.endpoint)
	return evaluateResponse(response, err)
}
