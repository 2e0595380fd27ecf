package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kmgmill/ricemill-api/internal/application/billing"
	"github.com/kmgmill/ricemill-api/internal/application/dto"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

// InvoiceHandler serves invoicing, payments and the invoice PDF.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Generate creates the invoice of a confirmed order and deducts stock.
// POST /api/invoices
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	orderID, err := uuid.Parse(in.OrderID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid order id"})
	}

	invoice, updates, err := h.uc.Generate(c.Context(), billing.GenerateInvoiceInput{
		OrderID:         orderID,
		DiscountPercent: in.DiscountPercent,
		TaxPercent:      in.TaxPercent,
		Notes:           in.Notes,
		BilledBy:        GetUserID(c),
		PreparedByName:  in.PreparedByName,
		DriverID:        in.DriverID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"invoice":      invoice,
		"stockUpdates": updates,
	})
}

// RecordPayment appends a settlement to an invoice.
// POST /api/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid invoice id"})
	}
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}

	invoice, err := h.uc.RecordPayment(c.Context(), id, billing.PaymentInput{
		Amount:     in.Amount,
		Method:     in.Method,
		Reference:  in.Reference,
		RecordedBy: GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Cancel soft-cancels an invoice.
// POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid invoice id"})
	}
	invoice, err := h.uc.Cancel(c.Context(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// GetByID returns one invoice.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid invoice id"})
	}
	invoice, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// List returns invoices, newest first.
// GET /api/invoices?paymentStatus=&from=&to=&limit=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	invoices, err := h.uc.List(c.Context(), repository.InvoiceFilter{
		PaymentStatus: entity.PaymentStatus(c.Query("paymentStatus")),
		DateFrom:      queryDate(c, "from"),
		DateTo:        queryDate(c, "to"),
		Limit:         queryInt(c, "limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// DownloadPDF streams the rendered invoice.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid invoice id"})
	}
	data, err := h.uc.RenderPDF(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoice-`+id.String()+`.pdf"`)
	return c.Send(data)
}
