package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentOverdue       PaymentStatus = "overdue"
	PaymentCancelled     PaymentStatus = "cancelled"
)

type InvoiceStatus string

const (
	InvoiceActive    InvoiceStatus = "active"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Payment is one settlement against an invoice. Stored as JSONB.
type Payment struct {
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	PaidAt     time.Time       `json:"paidAt"`
	RecordedBy string          `json:"recordedBy"`
}

// MillDetails is the issuing mill's letterhead block, snapshotted onto
// the invoice at generation time.
type MillDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	GST     string `json:"gst"`
}

// Invoice is generated exactly once per confirmed order. Amounts are
// frozen at generation; payments accumulate afterwards.
type Invoice struct {
	ID              uuid.UUID
	InvoiceNumber   string
	OrderID         uuid.UUID
	OrderNumber     string
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	Items           []OrderItem
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxPercent      decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	InvoiceDate     time.Time
	InvoiceTime     string // HH:MM:SS
	DueDate         time.Time
	Payments        []Payment
	PaymentStatus   PaymentStatus
	Status          InvoiceStatus
	CancelledBy     string
	CancelledAt     *time.Time
	MillDetails     MillDetails
	PaymentTerms    string
	PreparedByName  string
	DriverID        string
	BilledBy        string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AmountPaid sums every recorded payment.
func (i *Invoice) AmountPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Outstanding is what remains due, floored at zero.
func (i *Invoice) Outstanding() decimal.Decimal {
	out := i.TotalAmount.Sub(i.AmountPaid())
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// RecalcPaymentStatus derives the status from the payment history and
// the due date. An unsettled invoice past its due date is overdue; a
// cancelled invoice stays cancelled.
func (i *Invoice) RecalcPaymentStatus(now time.Time) {
	if i.Status == InvoiceCancelled {
		i.PaymentStatus = PaymentCancelled
		return
	}
	paid := i.AmountPaid()
	switch {
	case paid.GreaterThanOrEqual(i.TotalAmount):
		i.PaymentStatus = PaymentPaid
	case now.After(i.DueDate):
		i.PaymentStatus = PaymentOverdue
	case paid.IsZero():
		i.PaymentStatus = PaymentUnpaid
	default:
		i.PaymentStatus = PaymentPartiallyPaid
	}
}
