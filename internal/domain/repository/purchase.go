package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

type PurchaseFilter struct {
	Status     string
	SupplierID string
	PaddyType  string
	DateFrom   time.Time
	DateTo     time.Time
	Limit      int
}

// PurchaseSummary are the intake totals for a window.
type PurchaseSummary struct {
	PurchaseCount int
	TotalNetKg    float64
	TotalAmount   float64
	AvgPricePerKg float64
}

type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	List(ctx context.Context, f PurchaseFilter) ([]entity.Purchase, error)
	Summary(ctx context.Context, from, to time.Time) (PurchaseSummary, error)
}
