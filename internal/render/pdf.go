package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/invopost/invoice-dispatch/internal/domain"
)

// PDFRenderer renders invoices to A4 PDF documents.
type PDFRenderer struct {
	now func() time.Time
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{now: time.Now}
}

func (r *PDFRenderer) Render(ctx context.Context, data domain.InvoiceData) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	writeHeader(pdf, data)
	writeCustomerBlock(pdf, data)
	writeItemsTable(pdf, data.Items)
	writeTotals(pdf, data)

	if data.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, "Notes: "+data.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	return &Artifact{
		ID:      ArtifactID(data.InvoiceNumber, r.now()),
		Content: buf.Bytes(),
	}, nil
}

func writeHeader(pdf *gofpdf.Fpdf, data domain.InvoiceData) {
	pdf.SetFont("Arial", "B", 18)
	company := data.CompanyName
	if company == "" {
		company = "Invoice"
	}
	pdf.CellFormat(0, 10, company, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Invoice #"+data.InvoiceNumber, "", 1, "L", false, 0, "")
	if data.InvoiceDate != "" {
		pdf.CellFormat(0, 6, "Date: "+data.InvoiceDate, "", 1, "L", false, 0, "")
	}
	if data.DueDate != "" {
		pdf.CellFormat(0, 6, "Due: "+data.DueDate, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeCustomerBlock(pdf *gofpdf.Fpdf, data domain.InvoiceData) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, data.CustomerName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, data.CustomerEmail, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, data.CustomerPhone, "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func writeItemsTable(pdf *gofpdf.Fpdf, items []domain.LineItem) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(95, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		pdf.CellFormat(95, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, trimFloat(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money(item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money(item.Total()), "1", 1, "R", false, 0, "")
	}
}

func writeTotals(pdf *gofpdf.Fpdf, data domain.InvoiceData) {
	pdf.Ln(4)
	writeTotalRow(pdf, "Subtotal", data.Totals.Subtotal, false)
	writeTotalRow(pdf, fmt.Sprintf("Tax (%s%%)", trimFloat(data.TaxRate)), data.Totals.Tax, false)
	if data.DiscountAmount != 0 {
		writeTotalRow(pdf, "Discount", -data.DiscountAmount, false)
	}
	writeTotalRow(pdf, "Total", data.Totals.Total, true)
}

func writeTotalRow(pdf *gofpdf.Fpdf, label string, amount float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(155, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, money(amount), "", 1, "R", false, 0, "")
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
