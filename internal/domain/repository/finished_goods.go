package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

type FinishedGoodsRepository interface {
	Create(ctx context.Context, lot *entity.FinishedGoodsLot) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FinishedGoodsLot, error)
	GetBySKU(ctx context.Context, sku string) (*entity.FinishedGoodsLot, error)
	List(ctx context.Context) ([]entity.FinishedGoodsLot, error)
	UpdateWeight(ctx context.Context, id uuid.UUID, weightKg decimal.Decimal) error
}
