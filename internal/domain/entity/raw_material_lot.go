package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LotAvailable = "available"
	LotUsed      = "used"
)

// RawMaterialLot is a paddy lot created by a received purchase. Its
// quantity is drawn down by production batches; when it reaches zero
// the lot is marked used.
type RawMaterialLot struct {
	ID             uuid.UUID
	SKU            string // RM-<poNumber>
	Name           string // "<paddyType> Paddy - <grade>"
	PaddyType      string
	Grade          string
	QuantityKg     decimal.Decimal
	UnitCost       decimal.Decimal
	MinimumStockKg decimal.Decimal
	Status         string
	StorageBin     string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
