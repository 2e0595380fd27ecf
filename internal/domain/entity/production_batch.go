package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BatchStatus string

const (
	BatchQueued     BatchStatus = "queued"
	BatchInProgress BatchStatus = "in_progress"
	BatchCompleted  BatchStatus = "completed"
	BatchCancelled  BatchStatus = "cancelled"
)

// BatchOutput is the declared yield of a completed batch, by product
// stream. All figures are kilograms.
type BatchOutput struct {
	RiceKg       decimal.Decimal
	BrokenRiceKg decimal.Decimal
	HuskKg       decimal.Decimal
	BranKg       decimal.Decimal
	ImpurityKg   decimal.Decimal
}

// TotalKg sums every output stream for the mass-balance check.
func (o BatchOutput) TotalKg() decimal.Decimal {
	return o.RiceKg.Add(o.BrokenRiceKg).Add(o.HuskKg).Add(o.BranKg).Add(o.ImpurityKg)
}

// ProductionBatch tracks one milling run from paddy reservation to
// finished goods.
type ProductionBatch struct {
	ID           uuid.UUID
	BatchNumber  string
	LotID        uuid.UUID
	LotSKU       string
	PaddyType    string
	InputPaddyKg decimal.Decimal
	Output       BatchOutput
	YieldPct     decimal.Decimal
	Status       BatchStatus
	OperatorID   string
	Notes        string
	StartedAt    time.Time
	CompletedAt  *time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
