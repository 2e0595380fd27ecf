package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

// BatchFilter narrows batch listings. Zero values mean "no filter".
type BatchFilter struct {
	Status   entity.BatchStatus
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
}

type ProductionBatchRepository interface {
	Create(ctx context.Context, b *entity.ProductionBatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductionBatch, error)
	Update(ctx context.Context, b *entity.ProductionBatch) error

	// Delete removes a batch record. Only used as the compensating
	// action when paddy reservation fails after batch creation.
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, f BatchFilter) ([]entity.ProductionBatch, error)
}
