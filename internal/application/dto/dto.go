// Package dto holds the request and response shapes of the HTTP API.
// Some requests accept legacy field names still used by the mobile
// clients; Normalize folds them into the canonical fields.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ── Procurement ───────────────────────────────────────────────────────────────

type ReceivePurchaseRequest struct {
	SupplierID    string          `json:"supplierId"`
	SupplierName  string          `json:"supplierName"`
	PaddyType     string          `json:"paddyType"`
	Grade         string          `json:"grade"`
	GrossWeightKg decimal.Decimal `json:"grossWeightKg"`
	TareWeightKg  decimal.Decimal `json:"tareWeightKg"`
	MoisturePct   decimal.Decimal `json:"moisturePct"`
	PricePerKg    decimal.Decimal `json:"pricePerKg"`
	TransportCost decimal.Decimal `json:"transportCost"`
	UnloadingCost decimal.Decimal `json:"unloadingCost"`
	StorageBin    string          `json:"storageBin"`
	ReceivedAt    *time.Time      `json:"receivedAt"`
	Notes         string          `json:"notes"`

	// Legacy aliases.
	WeightKg  decimal.Decimal `json:"weightKg"`
	RatePerKg decimal.Decimal `json:"ratePerKg"`
}

// Normalize maps legacy field names onto the canonical ones.
func (r *ReceivePurchaseRequest) Normalize() {
	if r.GrossWeightKg.IsZero() && !r.WeightKg.IsZero() {
		r.GrossWeightKg = r.WeightKg
	}
	if r.PricePerKg.IsZero() && !r.RatePerKg.IsZero() {
		r.PricePerKg = r.RatePerKg
	}
}

// ── Production ────────────────────────────────────────────────────────────────

type StartBatchRequest struct {
	LotID        string          `json:"lotId"`
	InputPaddyKg decimal.Decimal `json:"inputPaddyKg"`
	OperatorID   string          `json:"operatorId"`
	Notes        string          `json:"notes"`

	// Legacy alias.
	InputQuantityKg decimal.Decimal `json:"inputQuantityKg"`
}

func (r *StartBatchRequest) Normalize() {
	if r.InputPaddyKg.IsZero() && !r.InputQuantityKg.IsZero() {
		r.InputPaddyKg = r.InputQuantityKg
	}
}

type CompleteBatchRequest struct {
	RiceKg       decimal.Decimal `json:"riceKg"`
	BrokenRiceKg decimal.Decimal `json:"brokenRiceKg"`
	HuskKg       decimal.Decimal `json:"huskKg"`
	BranKg       decimal.Decimal `json:"branKg"`
	ImpurityKg   decimal.Decimal `json:"impurityKg"`
	RiceGrade    string          `json:"riceGrade"`
	BagWeightKg  decimal.Decimal `json:"bagWeightKg"`
	PricePerKg   decimal.Decimal `json:"pricePerKg"`
	ExpiryDate   *time.Time      `json:"expiryDate"`
	StorageBin   string          `json:"storageBin"`
	Notes        string          `json:"notes"`

	// Legacy aliases.
	RiceWeightKg decimal.Decimal `json:"riceWeightKg"`
	OutputRiceKg decimal.Decimal `json:"outputRiceKg"`
}

func (r *CompleteBatchRequest) Normalize() {
	if r.RiceKg.IsZero() && !r.RiceWeightKg.IsZero() {
		r.RiceKg = r.RiceWeightKg
	}
	if r.RiceKg.IsZero() && !r.OutputRiceKg.IsZero() {
		r.RiceKg = r.OutputRiceKg
	}
}

// ── Sales ─────────────────────────────────────────────────────────────────────

type OrderLineRequest struct {
	SKU       string          `json:"sku"`
	QtyKg     decimal.Decimal `json:"qtyKg"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreateOrderRequest struct {
	CustomerID      string             `json:"customerId"`
	CustomerName    string             `json:"customerName"`
	CustomerAddress string             `json:"customerAddress"`
	CustomerPhone   string             `json:"customerPhone"`
	Items           []OrderLineRequest `json:"items"`
	DeliveryDate    *time.Time         `json:"deliveryDate"`
	ShippingAddress string             `json:"shippingAddress"`
	PaymentTerms    string             `json:"paymentTerms"`
	DeliveryMethod  string             `json:"deliveryMethod"`
	DriverID        string             `json:"driverId"`
	Notes           string             `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type GenerateInvoiceRequest struct {
	OrderID         string           `json:"orderId"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
	TaxPercent      *decimal.Decimal `json:"taxPercent"`
	Notes           string           `json:"notes"`
	PreparedByName  string           `json:"preparedByName"`
	DriverID        string           `json:"driverId"`
}

type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
}

// ── Inventory ─────────────────────────────────────────────────────────────────

type AdjustmentRequest struct {
	ProductSKU string          `json:"productSku"`
	QtyKg      decimal.Decimal `json:"qtyKg"`
	Reason     string          `json:"reason"`
}
