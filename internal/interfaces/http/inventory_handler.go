package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kmgmill/ricemill-api/internal/application/dto"
	"github.com/kmgmill/ricemill-api/internal/application/inventory"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

// InventoryHandler serves the stock ledger endpoints.
type InventoryHandler struct {
	uc *inventory.UseCase
}

func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateAdjustment records a manual stock correction.
// POST /api/inventory/adjustments
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	m, err := h.uc.CreateAdjustment(c.Context(), inventory.AdjustmentInput{
		ProductSKU: in.ProductSKU,
		QtyKg:      in.QtyKg,
		Reason:     in.Reason,
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// Balance returns the derived balance of a product.
// GET /api/inventory/:sku/balance?asOf=
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	sku := c.Params("sku")
	bal, err := h.uc.BalanceAsOf(c.Context(), sku, queryDate(c, "asOf"))
	if err != nil {
		return respondError(c, err)
	}
	asOf := queryDate(c, "asOf")
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return c.JSON(fiber.Map{
		"productSku": sku,
		"balanceKg":  bal,
		"asOf":       asOf,
	})
}

// History lists a product's movements, newest first.
// GET /api/inventory/:sku/movements?limit=
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	movements, err := h.uc.History(c.Context(), c.Params("sku"), queryInt(c, "limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

// ByReference returns the audit trail of one document.
// GET /api/inventory/references/:refType/:refId
func (h *InventoryHandler) ByReference(c *fiber.Ctx) error {
	refID, ok := paramUUID(c, "refId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid reference id"})
	}
	movements, err := h.uc.MovementsByReference(c.Context(), entity.ReferenceType(c.Params("refType")), refID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}
