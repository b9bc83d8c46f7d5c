package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/invopost/invoice-dispatch/internal/domain"
)

// Artifact is a rendered invoice document. Once the dispatch pipeline hands
// it to the store it is referenced only by ID.
type Artifact struct {
	ID      string
	Content []byte
}

// Renderer turns resolved invoice data into a named artifact. The pipeline
// invokes it at most once per dispatch call; a failure aborts the call.
type Renderer interface {
	Render(ctx context.Context, data domain.InvoiceData) (*Artifact, error)
}

// ArtifactID builds a filename-safe id unique per invoice number and
// generation time.
func ArtifactID(invoiceNumber string, at time.Time) string {
	return fmt.Sprintf("invoice-%s-%d.pdf", sanitizeID(invoiceNumber), at.UnixMilli())
}

func sanitizeID(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "untitled"
	}

	var b strings.Builder
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
