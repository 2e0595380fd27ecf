package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Machine is a read-only asset record used for depreciation figures in
// the economics report. Machine CRUD lives in the maintenance service.
type Machine struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Cost        decimal.Decimal
	PurchasedAt time.Time
}
