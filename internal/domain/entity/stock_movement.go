package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIN     MovementType = "IN"
	MovementOUT    MovementType = "OUT"
	MovementADJUST MovementType = "ADJUST"
)

type ReferenceType string

const (
	RefPurchase   ReferenceType = "purchase"
	RefProduction ReferenceType = "production"
	RefSale       ReferenceType = "sale"
	RefAdjustment ReferenceType = "adjustment"
	RefTransfer   ReferenceType = "transfer"
)

// StockMovement is one immutable row of the append-only stock ledger.
// QtyKg is a magnitude for IN and OUT; ADJUST entries carry a signed
// quantity. Balances are derived, never stored.
type StockMovement struct {
	ID         uuid.UUID
	Type       MovementType
	ProductSKU string
	QtyKg      decimal.Decimal
	FromBin    string
	ToBin      string
	RefType    ReferenceType
	RefID      uuid.UUID
	Reason     string
	UnitCost   decimal.Decimal
	TotalCost  decimal.Decimal
	CreatedBy  string
	CreatedAt  time.Time
}

func (t MovementType) Valid() bool {
	switch t {
	case MovementIN, MovementOUT, MovementADJUST:
		return true
	}
	return false
}

func (t ReferenceType) Valid() bool {
	switch t {
	case RefPurchase, RefProduction, RefSale, RefAdjustment, RefTransfer:
		return true
	}
	return false
}
