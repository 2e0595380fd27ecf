package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinishedGoodsLot is milled rice produced by a completed batch.
// Sales deduct weight from it at invoice time.
type FinishedGoodsLot struct {
	ID          uuid.UUID
	SKU         string // FG-<batchNumber>
	BatchID     uuid.UUID
	PaddyType   string
	RiceGrade   string
	WeightKg    decimal.Decimal
	BagCount    int
	BagWeightKg decimal.Decimal
	// UnitPrice is the current selling price per kg, maintained by the
	// sales team. Zero until priced.
	UnitPrice  decimal.Decimal
	StorageBin string
	ExpiryDate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
