package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const PurchaseReceived = "received"

// Purchase is a received paddy intake. Net weight and total amount are
// derived on receipt and never edited afterwards.
type Purchase struct {
	ID            uuid.UUID
	PONumber      string
	SupplierID    string
	SupplierName  string
	PaddyType     string
	Grade         string
	GrossWeightKg decimal.Decimal
	TareWeightKg  decimal.Decimal
	NetWeightKg   decimal.Decimal
	MoisturePct   decimal.Decimal
	PricePerKg    decimal.Decimal
	TransportCost decimal.Decimal
	UnloadingCost decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        string
	LotSKU        string
	StorageBin    string
	Notes         string
	ReceivedAt    time.Time
	CreatedBy     string
	CreatedAt     time.Time
}
