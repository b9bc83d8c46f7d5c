package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/invopost/invoice-dispatch/internal/domain"
	"github.com/invopost/invoice-dispatch/internal/observability"
	"github.com/invopost/invoice-dispatch/internal/storage"
)

type InvoiceService interface {
	Dispatch(ctx context.Context, req *domain.InvoiceRequest) (*domain.DispatchResult, error)
}

type InvoiceHandler struct {
	service InvoiceService
	store   storage.Store
}

func NewInvoiceHandler(service InvoiceService, store storage.Store) (*InvoiceHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("invoice service is required")
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store is required")
	}
	return &InvoiceHandler{service: service, store: store}, nil
}

func RegisterInvoiceRoutes(router fiber.Router, service InvoiceService, store storage.Store) error {
	h, err := NewInvoiceHandler(service, store)
	if err != nil {
		return err
	}

	api := router.Group("/api")
	api.Post("/invoices", h.GenerateInvoice)
	api.Get("/invoices/:fileName/download", h.DownloadInvoice)

	// Inline retrieval mirrors the static /invoices mount of the
	// submission response's downloadUrl.
	router.Get("/invoices/:fileName", h.GetInvoice)

	return nil
}

type channelOutcomeItem struct {
	Channel   string `json:"channel"`
	Delivered bool   `json:"delivered"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type generateInvoiceResponse struct {
	Success       bool                 `json:"success"`
	Message       string               `json:"message"`
	InvoiceNumber string               `json:"invoiceNumber"`
	FileName      string               `json:"fileName"`
	DownloadURL   string               `json:"downloadUrl"`
	Channels      []channelOutcomeItem `json:"channels"`
}

func (h *InvoiceHandler) GenerateInvoice(c *fiber.Ctx) error {
	var req domain.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var ctx context.Context = c.Context()
	if correlationID := requestCorrelationID(c); correlationID != "" {
		ctx = observability.WithCorrelationID(ctx, correlationID)
	}

	result, err := h.service.Dispatch(ctx, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(generateInvoiceResponse{
		Success:       result.Success,
		Message:       "Invoice generated and sent successfully",
		InvoiceNumber: result.InvoiceNumber,
		FileName:      result.ArtifactID,
		DownloadURL:   result.DownloadURL,
		Channels:      toChannelOutcomeItems(result.Outcomes),
	})
}

func (h *InvoiceHandler) DownloadInvoice(c *fiber.Ctx) error {
	fileName := strings.TrimSpace(c.Params("fileName"))

	content, err := h.store.Open(c.Context(), fileName)
	if err != nil {
		return toHTTPError(err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Status(fiber.StatusOK).Send(content)
}

func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	fileName := strings.TrimSpace(c.Params("fileName"))

	content, err := h.store.Open(c.Context(), fileName)
	if err != nil {
		return toHTTPError(err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Status(fiber.StatusOK).Send(content)
}

func toChannelOutcomeItems(outcomes []domain.ChannelOutcome) []channelOutcomeItem {
	items := make([]channelOutcomeItem, 0, len(outcomes))
	for _, outcome := range outcomes {
		items = append(items, channelOutcomeItem{
			Channel:   strings.ToLower(outcome.Channel.String()),
			Delivered: outcome.Delivered,
			MessageID: outcome.MessageID,
			Error:     outcome.Reason,
		})
	}
	return items
}

func requestCorrelationID(c *fiber.Ctx) string {
	if value := strings.TrimSpace(c.Get(fiber.HeaderXRequestID)); value != "" {
		return value
	}
	if value, ok := c.Locals("requestid").(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	case errors.Is(err, domain.ErrRender):
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate invoice")
	default:
		return err
	}
}
