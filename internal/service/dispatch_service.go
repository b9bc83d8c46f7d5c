package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/invopost/invoice-dispatch/internal/domain"
	"github.com/invopost/invoice-dispatch/internal/observability"
	"github.com/invopost/invoice-dispatch/internal/provider"
	"github.com/invopost/invoice-dispatch/internal/render"
	"github.com/invopost/invoice-dispatch/internal/storage"
)

// DispatchService runs the invoice pipeline: validate, resolve totals,
// render, persist, then fan out to the configured notification channels.
// Channel failures are isolated; only validation and render abort a call.
type DispatchService struct {
	renderer  render.Renderer
	store     storage.Store
	providers []provider.Provider
	baseURL   string
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

func NewDispatchService(
	renderer render.Renderer,
	store storage.Store,
	providers []provider.Provider,
	baseURL string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*DispatchService, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DispatchService{
		renderer:  renderer,
		store:     store,
		providers: providers,
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}, nil
}

// Dispatch processes one invoice request end to end. The returned result is
// created fresh per call and never persisted. A non-nil error means the
// pipeline aborted before the artifact existed; past that point the call
// always succeeds and channel failures appear only in the outcome list.
func (s *DispatchService) Dispatch(ctx context.Context, req *domain.InvoiceRequest) (*domain.DispatchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := observability.CorrelationIDFromContext(ctx); !ok {
		ctx = observability.WithCorrelationID(ctx, uuid.NewString())
	}
	logger := observability.WithContextLogger(s.logger, ctx)

	if err := req.Validate(); err != nil {
		s.metrics.IncInvoiceRejected(rejectionReason(err))
		return nil, err
	}

	data := domain.NewInvoiceData(req)
	logger = logger.With(zap.String("invoiceNumber", data.InvoiceNumber))

	renderStart := s.now()
	artifact, err := s.renderer.Render(ctx, data)
	if err != nil {
		logger.Error("invoice render failed", zap.Error(err))
		if errors.Is(err, domain.ErrRender) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	if err := s.store.Save(ctx, artifact.ID, artifact.Content); err != nil {
		logger.Error("artifact persist failed",
			zap.String("artifactId", artifact.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: failed to persist artifact: %v", domain.ErrRender, err)
	}
	s.metrics.ObserveRenderDuration(s.now().Sub(renderStart))
	s.metrics.IncInvoiceGenerated()

	logger.Info("invoice artifact generated",
		zap.String("artifactId", artifact.ID),
		zap.Int("sizeBytes", len(artifact.Content)),
	)

	outcomes := s.dispatchChannels(ctx, logger, data, artifact)

	return domain.AggregateResult(
		data.InvoiceNumber,
		artifact.ID,
		"/invoices/"+artifact.ID,
		outcomes,
	), nil
}

// dispatchChannels attempts every configured channel concurrently, one try
// each. Both payloads are composed up front from the persisted artifact, so
// no attempt depends on another's outcome; each result lands in a fixed slot
// keyed by provider position regardless of completion order.
func (s *DispatchService) dispatchChannels(
	ctx context.Context,
	logger *zap.Logger,
	data domain.InvoiceData,
	artifact *render.Artifact,
) []domain.ChannelOutcome {
	outcomes := make([]domain.ChannelOutcome, len(s.providers))

	g, groupCtx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		i, p := i, p
		msg := s.composeMessage(p.Channel(), data, artifact)

		g.Go(func() error {
			channel := p.Channel()
			channelName := strings.ToLower(channel.String())

			sendStart := s.now()
			resp, err := p.Send(groupCtx, msg)
			s.metrics.ObserveChannelSendDuration(channelName, s.now().Sub(sendStart))

			if err != nil {
				s.metrics.IncChannelDelivery(channelName, false)
				logger.Warn("channel delivery failed",
					zap.String("channel", channelName),
					zap.Bool("transient", provider.IsTransient(err)),
					zap.Error(err),
				)
				outcomes[i] = domain.FailedOutcome(channel, err.Error())
				return nil
			}

			s.metrics.IncChannelDelivery(channelName, true)
			logger.Info("channel delivery succeeded",
				zap.String("channel", channelName),
				zap.String("providerMessageId", resp.MessageID),
			)
			outcomes[i] = domain.DeliveredOutcome(channel, resp.MessageID)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *DispatchService) composeMessage(
	channel domain.Channel,
	data domain.InvoiceData,
	artifact *render.Artifact,
) provider.Message {
	downloadURL := s.baseURL + "/invoices/" + artifact.ID

	switch channel {
	case domain.ChannelEmail:
		return provider.Message{
			Recipient: data.CustomerEmail,
			Subject:   fmt.Sprintf("Invoice %s", data.InvoiceNumber),
			Body: fmt.Sprintf(
				"<p>Hi %s,</p><p>Please find invoice %s attached.</p>",
				data.CustomerName, data.InvoiceNumber,
			),
			AttachmentName: artifact.ID,
			Attachment:     artifact.Content,
		}
	case domain.ChannelSMS:
		return provider.Message{
			Recipient: data.CustomerPhone,
			Body: fmt.Sprintf(
				"Hi %s, your invoice %s is ready. Download: %s",
				data.CustomerName, data.InvoiceNumber, downloadURL,
			),
			LinkURL: downloadURL,
		}
	default:
		return provider.Message{}
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCustomerInfo):
		return "missing_customer_info"
	case errors.Is(err, domain.ErrNoLineItems):
		return "no_line_items"
	default:
		return "invalid_request"
	}
}
