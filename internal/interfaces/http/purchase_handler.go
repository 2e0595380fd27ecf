package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kmgmill/ricemill-api/internal/application/dto"
	"github.com/kmgmill/ricemill-api/internal/application/procurement"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

// PurchaseHandler serves the paddy intake endpoints.
type PurchaseHandler struct {
	uc *procurement.UseCase
}

func NewPurchaseHandler(uc *procurement.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Receive records a paddy delivery and creates its lot.
// POST /api/purchases
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	in.Normalize()

	input := procurement.ReceivePurchaseInput{
		SupplierID:    in.SupplierID,
		SupplierName:  in.SupplierName,
		PaddyType:     in.PaddyType,
		Grade:         in.Grade,
		GrossWeightKg: in.GrossWeightKg,
		TareWeightKg:  in.TareWeightKg,
		MoisturePct:   in.MoisturePct,
		PricePerKg:    in.PricePerKg,
		TransportCost: in.TransportCost,
		UnloadingCost: in.UnloadingCost,
		StorageBin:    in.StorageBin,
		Notes:         in.Notes,
		CreatedBy:     GetUserID(c),
	}
	if in.ReceivedAt != nil {
		input.ReceivedAt = *in.ReceivedAt
	}

	purchase, lot, err := h.uc.Receive(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"purchase": purchase,
		"lot":      lot,
	})
}

// GetByID returns one purchase.
// GET /api/purchases/:id
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid purchase id"})
	}
	purchase, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if purchase == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "purchase not found"})
	}
	return c.JSON(purchase)
}

// List returns purchases, newest first.
// GET /api/purchases?status=&supplierId=&paddyType=&from=&to=&limit=
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	purchases, err := h.uc.List(c.Context(), repository.PurchaseFilter{
		Status:     c.Query("status"),
		SupplierID: c.Query("supplierId"),
		PaddyType:  c.Query("paddyType"),
		DateFrom:   queryDate(c, "from"),
		DateTo:     queryDate(c, "to"),
		Limit:      queryInt(c, "limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchases)
}

// Summary returns intake totals for a window.
// GET /api/purchases/summary?from=&to=
func (h *PurchaseHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.Context(), queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
