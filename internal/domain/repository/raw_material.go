package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

type RawMaterialRepository interface {
	Create(ctx context.Context, lot *entity.RawMaterialLot) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RawMaterialLot, error)
	GetBySKU(ctx context.Context, sku string) (*entity.RawMaterialLot, error)
	List(ctx context.Context) ([]entity.RawMaterialLot, error)

	// ReserveQuantity atomically decrements the lot by qty, guarded by
	// quantity_kg >= qty in the same statement. When the guard fails it
	// returns domain.ErrInsufficientStock and leaves the lot untouched.
	// A lot drawn down to zero is marked used.
	ReserveQuantity(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error

	// RestoreQuantity returns previously reserved paddy to the lot and
	// reopens it if it was marked used.
	RestoreQuantity(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error
}
