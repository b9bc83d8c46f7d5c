package domain

import (
	"fmt"
	"strings"
)

// Channel represents a notification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS:
		return true
	}
	return false
}

func ParseChannelFromString(s string) (Channel, error) {
	ch := Channel(strings.ToUpper(strings.TrimSpace(s)))
	if !ch.IsValid() {
		return "", fmt.Errorf("%w: invalid channel %q", ErrValidation, s)
	}
	return ch, nil
}

// LineItem is a single billable row on an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// Total returns quantity × unit price for this line.
func (i LineItem) Total() float64 {
	return i.Quantity * i.Price
}

// InvoiceRequest is the inbound invoice payload. Supplied totals are
// pointers: nil means "compute for me" while an explicit zero is trusted
// as-is and never recomputed.
type InvoiceRequest struct {
	InvoiceNumber  string     `json:"invoiceNumber"`
	InvoiceDate    string     `json:"invoiceDate"`
	DueDate        string     `json:"dueDate"`
	CompanyName    string     `json:"companyName"`
	CompanyLogo    string     `json:"companyLogo"`
	CustomerName   string     `json:"customerName"`
	CustomerEmail  string     `json:"customerEmail"`
	CustomerPhone  string     `json:"customerPhone"`
	Items          []LineItem `json:"items"`
	Notes          string     `json:"notes"`
	TaxRate        float64    `json:"taxRate"`
	DiscountAmount float64    `json:"discountAmount"`
	Subtotal       *float64   `json:"subtotal"`
	Tax            *float64   `json:"tax"`
	Total          *float64   `json:"total"`
}

// Validate gates the pipeline: nothing downstream runs for an invalid
// request. It never mutates the receiver.
func (r *InvoiceRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: invoice request is required", ErrValidation)
	}
	if strings.TrimSpace(r.CustomerName) == "" ||
		strings.TrimSpace(r.CustomerEmail) == "" ||
		strings.TrimSpace(r.CustomerPhone) == "" {
		return ErrMissingCustomerInfo
	}
	if len(r.Items) == 0 {
		return ErrNoLineItems
	}
	return nil
}

// ComputedTotals is derived from line items and rate/discount inputs.
type ComputedTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ResolveTotals fills in any omitted computed field. Pure: no I/O, no error
// conditions, and stable when applied to already-resolved data. A supplied
// value, including an explicit zero, is passed through untouched. The total
// may legitimately go negative when the discount exceeds subtotal plus tax;
// it is never clamped.
func ResolveTotals(r *InvoiceRequest) ComputedTotals {
	var totals ComputedTotals

	if r.Subtotal != nil {
		totals.Subtotal = *r.Subtotal
	} else {
		for _, item := range r.Items {
			totals.Subtotal += item.Total()
		}
	}

	if r.Tax != nil {
		totals.Tax = *r.Tax
	} else {
		totals.Tax = totals.Subtotal * r.TaxRate / 100
	}

	if r.Total != nil {
		totals.Total = *r.Total
	} else {
		totals.Total = totals.Subtotal + totals.Tax - r.DiscountAmount
	}

	return totals
}

// InvoiceData is the request plus resolved totals. It is immutable for the
// duration of one dispatch call and is what the renderer and channels see.
type InvoiceData struct {
	InvoiceRequest
	Totals ComputedTotals
}

// NewInvoiceData snapshots a validated request with its resolved totals.
func NewInvoiceData(r *InvoiceRequest) InvoiceData {
	return InvoiceData{
		InvoiceRequest: *r,
		Totals:         ResolveTotals(r),
	}
}
