package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

type InvoiceFilter struct {
	PaymentStatus entity.PaymentStatus
	DateFrom      time.Time
	DateTo        time.Time
	Limit         int
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	List(ctx context.Context, f InvoiceFilter) ([]entity.Invoice, error)
}
