package billing

import "github.com/kmgmill/ricemill-api/internal/domain/entity"

// InvoicePDFGenerator renders an invoice for download.
type InvoicePDFGenerator interface {
	Generate(inv *entity.Invoice) ([]byte, error)
}
