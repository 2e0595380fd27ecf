package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderConfirmed OrderStatus = "confirmed"
	OrderInvoiced  OrderStatus = "invoiced"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one sales line. Stored as JSONB alongside the order, so
// the fields carry JSON tags.
type OrderItem struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"productName"`
	QtyKg       decimal.Decimal `json:"qtyKg"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// SalesOrder moves draft → confirmed → invoiced → shipped → delivered.
// Stock is deducted at invoicing, never at shipping.
type SalesOrder struct {
	ID              uuid.UUID
	OrderNumber     string
	CustomerID      string
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	DeliveryDate    *time.Time
	ShippingAddress string
	PaymentTerms    string
	DeliveryMethod  string
	DriverID        string
	Notes           string
	InvoiceID       *uuid.UUID
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanTransitionTo reports whether the order may move to the target
// status. Cancellation is allowed anywhere before shipping.
func (o *SalesOrder) CanTransitionTo(target OrderStatus) bool {
	switch target {
	case OrderConfirmed:
		return o.Status == OrderDraft
	case OrderInvoiced:
		return o.Status == OrderConfirmed
	case OrderShipped:
		return o.Status == OrderConfirmed || o.Status == OrderInvoiced
	case OrderDelivered:
		return o.Status == OrderShipped
	case OrderCancelled:
		return o.Status != OrderShipped && o.Status != OrderDelivered
	}
	return false
}
