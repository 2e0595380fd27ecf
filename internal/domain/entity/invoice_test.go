package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

func invoiceDue(total string, due time.Time) *entity.Invoice {
	amount, _ := decimal.NewFromString(total)
	return &entity.Invoice{
		TotalAmount: amount,
		DueDate:     due,
		Status:      entity.InvoiceActive,
	}
}

func pay(inv *entity.Invoice, amount string) {
	d, _ := decimal.NewFromString(amount)
	inv.Payments = append(inv.Payments, entity.Payment{Amount: d})
}

func TestRecalcPaymentStatus_Progression(t *testing.T) {
	now := time.Now()
	inv := invoiceDue("1050", now.AddDate(0, 0, 30))

	inv.RecalcPaymentStatus(now)
	assert.Equal(t, entity.PaymentUnpaid, inv.PaymentStatus)

	pay(inv, "400")
	inv.RecalcPaymentStatus(now)
	assert.Equal(t, entity.PaymentPartiallyPaid, inv.PaymentStatus)

	pay(inv, "650")
	inv.RecalcPaymentStatus(now)
	assert.Equal(t, entity.PaymentPaid, inv.PaymentStatus)
}

func TestRecalcPaymentStatus_OverduePastDueDate(t *testing.T) {
	now := time.Now()
	inv := invoiceDue("1050", now.AddDate(0, 0, -1))

	inv.RecalcPaymentStatus(now)
	assert.Equal(t, entity.PaymentOverdue, inv.PaymentStatus)

	// A partial payment does not clear the overdue flag.
	pay(inv, "400")
	inv.RecalcPaymentStatus(now)
	assert.Equal(t, entity.PaymentOverdue, inv.PaymentStatus)

	// Full settlement does, even after the due date.
	pay(inv, "650")
	inv.RecalcPaymentStatus(now)
	assert.Equal(t, entity.PaymentPaid, inv.PaymentStatus)
}

func TestRecalcPaymentStatus_CancelledStaysCancelled(t *testing.T) {
	now := time.Now()
	inv := invoiceDue("1050", now.AddDate(0, 0, -1))
	inv.Status = entity.InvoiceCancelled

	inv.RecalcPaymentStatus(now)
	assert.Equal(t, entity.PaymentCancelled, inv.PaymentStatus)
}
