package domain

import (
	"errors"
	"math"
	"testing"
)

func validRequest() *InvoiceRequest {
	return &InvoiceRequest{
		InvoiceNumber: "INV-1001",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		CustomerPhone: "+15551112233",
		Items: []LineItem{
			{Description: "Consulting", Quantity: 2, Price: 150},
		},
		TaxRate:        5,
		DiscountAmount: 20,
	}
}

func TestParseChannelFromString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    Channel
		wantErr bool
	}{
		{input: "email", want: ChannelEmail},
		{input: " SMS ", want: ChannelSMS},
		{input: "push", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParseChannelFromString(tc.input)
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ParseChannelFromString(%q) error = %v, want ErrValidation", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseChannelFromString(%q) error = %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseChannelFromString(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestInvoiceRequestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(r *InvoiceRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(r *InvoiceRequest) {}},
		{
			name:    "missing customer name",
			mutate:  func(r *InvoiceRequest) { r.CustomerName = "" },
			wantErr: ErrMissingCustomerInfo,
		},
		{
			name:    "blank customer email",
			mutate:  func(r *InvoiceRequest) { r.CustomerEmail = "   " },
			wantErr: ErrMissingCustomerInfo,
		},
		{
			name:    "missing customer phone",
			mutate:  func(r *InvoiceRequest) { r.CustomerPhone = "" },
			wantErr: ErrMissingCustomerInfo,
		},
		{
			name:    "no line items",
			mutate:  func(r *InvoiceRequest) { r.Items = nil },
			wantErr: ErrNoLineItems,
		},
		{
			name:    "empty line items",
			mutate:  func(r *InvoiceRequest) { r.Items = []LineItem{} },
			wantErr: ErrNoLineItems,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tc.mutate(req)

			err := req.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tc.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, should wrap ErrValidation", err)
			}
		})
	}
}

func TestResolveTotalsComputesFromItems(t *testing.T) {
	t.Parallel()

	totals := ResolveTotals(validRequest())

	if totals.Subtotal != 300 {
		t.Fatalf("Subtotal = %v, want 300", totals.Subtotal)
	}
	if totals.Tax != 15 {
		t.Fatalf("Tax = %v, want 15", totals.Tax)
	}
	if totals.Total != 295 {
		t.Fatalf("Total = %v, want 295", totals.Total)
	}
}

func TestResolveTotalsTrustsSuppliedZero(t *testing.T) {
	t.Parallel()

	req := validRequest()
	zero := 0.0
	req.Tax = &zero

	totals := ResolveTotals(req)
	if totals.Tax != 0 {
		t.Fatalf("Tax = %v, want supplied 0 passed through", totals.Tax)
	}
	if totals.Total != 280 {
		t.Fatalf("Total = %v, want 280 with zero tax", totals.Total)
	}
}

func TestResolveTotalsIdempotent(t *testing.T) {
	t.Parallel()

	req := validRequest()
	first := ResolveTotals(req)

	req.Subtotal = &first.Subtotal
	req.Tax = &first.Tax
	req.Total = &first.Total

	second := ResolveTotals(req)
	if first != second {
		t.Fatalf("totals drifted: first = %+v, second = %+v", first, second)
	}
}

func TestResolveTotalsNegativeTotalPermitted(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.DiscountAmount = 500

	totals := ResolveTotals(req)
	if totals.Total != -185 {
		t.Fatalf("Total = %v, want -185 (discount exceeds subtotal+tax)", totals.Total)
	}
}

func TestResolveTotalsFractionalCents(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.Items = []LineItem{
		{Description: "A", Quantity: 3, Price: 9.99},
		{Description: "B", Quantity: 1, Price: 0.01},
	}
	req.TaxRate = 8.25
	req.DiscountAmount = 0

	totals := ResolveTotals(req)
	if math.Abs(totals.Subtotal-29.98) > 1e-9 {
		t.Fatalf("Subtotal = %v, want 29.98", totals.Subtotal)
	}
	wantTax := 29.98 * 8.25 / 100
	if math.Abs(totals.Tax-wantTax) > 1e-9 {
		t.Fatalf("Tax = %v, want %v", totals.Tax, wantTax)
	}
	if math.Abs(totals.Total-(29.98+wantTax)) > 1e-9 {
		t.Fatalf("Total = %v, want %v", totals.Total, 29.98+wantTax)
	}
}

func TestAggregateResult(t *testing.T) {
	t.Parallel()

	outcomes := []ChannelOutcome{
		DeliveredOutcome(ChannelEmail, "msg-1"),
		FailedOutcome(ChannelSMS, "gateway timeout"),
	}

	result := AggregateResult("INV-1001", "invoice-INV-1001-123.pdf", "/invoices/invoice-INV-1001-123.pdf", outcomes)
	if !result.Success {
		t.Fatal("Success = false, want true when artifact exists")
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(result.Outcomes))
	}
	if !result.Outcomes[0].Delivered || result.Outcomes[0].Channel != ChannelEmail {
		t.Fatalf("outcome[0] = %+v, want delivered email", result.Outcomes[0])
	}
	if result.Outcomes[1].Delivered || result.Outcomes[1].Reason != "gateway timeout" {
		t.Fatalf("outcome[1] = %+v, want failed sms with reason", result.Outcomes[1])
	}

	empty := AggregateResult("INV-1001", "", "", nil)
	if empty.Success {
		t.Fatal("Success = true, want false without artifact")
	}
}
