package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

// StockMovementRepository is the append-only stock ledger. There is no
// update or delete; corrections are ADJUST entries.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error

	// BalanceAsOf folds the ledger for one product up to and including
	// the given instant: Σ(IN) + Σ(ADJUST) − Σ(OUT).
	BalanceAsOf(ctx context.Context, productSKU string, asOf time.Time) (decimal.Decimal, error)

	// ListByProduct returns movements for a product, newest first.
	ListByProduct(ctx context.Context, productSKU string, limit int) ([]entity.StockMovement, error)

	// ListByReference returns every movement a document produced,
	// oldest first.
	ListByReference(ctx context.Context, refType entity.ReferenceType, refID uuid.UUID) ([]entity.StockMovement, error)
}
