package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

type OrderFilter struct {
	Status   entity.OrderStatus
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
}

type SalesOrderRepository interface {
	Create(ctx context.Context, o *entity.SalesOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error)
	Update(ctx context.Context, o *entity.SalesOrder) error
	List(ctx context.Context, f OrderFilter) ([]entity.SalesOrder, error)
}
