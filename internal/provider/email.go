package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/invopost/invoice-dispatch/internal/domain"
)

const defaultProviderTimeout = 10 * time.Second

type emailAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Type     string `json:"type"`
}

type emailRequest struct {
	From        string            `json:"from"`
	To          string            `json:"to"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html"`
	Attachments []emailAttachment `json:"attachments,omitempty"`
}

// EmailAPIProvider delivers invoice emails through an HTTP email API,
// attaching the rendered PDF.
type EmailAPIProvider struct {
	client   *resty.Client
	endpoint string
	apiKey   string
	from     string
}

func NewEmailAPIProvider(endpoint, apiKey, from string) (*EmailAPIProvider, error) {
	client := resty.New()
	client.SetTimeout(defaultProviderTimeout)
	client.SetRetryCount(0)

	return NewEmailAPIProviderWithClient(endpoint, apiKey, from, client)
}

func NewEmailAPIProviderWithClient(endpoint, apiKey, from string, client *resty.Client) (*EmailAPIProvider, error) {
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

	return &EmailAPIProvider{
		client:   client,
		endpoint: trimmedEndpoint,
		apiKey:   strings.TrimSpace(apiKey),
		from:     strings.TrimSpace(from),
	}, nil
}

func (p *EmailAPIProvider) Channel() domain.Channel { return domain.ChannelEmail }

func (p *EmailAPIProvider) Send(ctx context.Context, msg Message) (*Response, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if strings.TrimSpace(msg.Recipient) == "" {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	}

	reqBody := emailRequest{
		From:    p.from,
		To:      msg.Recipient,
		Subject: msg.Subject,
		HTML:    msg.Body,
	}
	if len(msg.Attachment) > 0 {
		reqBody.Attachments = []emailAttachment{{
			Filename: msg.AttachmentName,
			Content:  base64.StdEncoding.EncodeToString(msg.Attachment),
			Type:     "application/pdf",
		}}
	}

	req := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody)
	if p.apiKey != "" {
		req.SetHeader("Authorization", "Bearer "+p.apiKey)
	}

	response, err := req.Post(p.endpoint)
	return evaluateResponse(response, err)
}

func validateEndpoint(endpoint string) (string, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return "", fmt.Errorf("provider endpoint is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return "", fmt.Errorf("invalid provider endpoint: %w", err)
	}
	return trimmed, nil
}

func evaluateResponse(response *resty.Response, err error) (*Response, error) {
	if err != nil {
		return nil, &ProviderError{
			Message:   "provider request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &ProviderError{
			Message:   "provider returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	responseBody := strings.TrimSpace(response.String())

	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return &Response{
			StatusCode: statusCode,
			Body:       responseBody,
			MessageID:  responseMessageID(response),
		}, nil
	}

	return nil, &ProviderError{
		StatusCode: statusCode,
		Message:    statusErrorMessage(statusCode, responseBody),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func responseMessageID(response *resty.Response) string {
	if response == nil {
		return ""
	}

	for _, key := range []string{"X-Message-ID", "X-Message-Id", "X-Request-ID", "X-Request-Id"} {
		if value := strings.TrimSpace(response.Header().Get(key)); value != "" {
			return value
		}
	}

	return ""
}
