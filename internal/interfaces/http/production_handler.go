package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kmgmill/ricemill-api/internal/application/dto"
	"github.com/kmgmill/ricemill-api/internal/application/production"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

// ProductionHandler serves the milling batch endpoints.
type ProductionHandler struct {
	uc *production.UseCase
}

func NewProductionHandler(uc *production.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Start reserves paddy and opens a batch.
// POST /api/batches
func (h *ProductionHandler) Start(c *fiber.Ctx) error {
	var in dto.StartBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	in.Normalize()

	lotID, err := uuid.Parse(in.LotID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid lot id"})
	}

	batch, err := h.uc.Start(c.Context(), production.StartBatchInput{
		LotID:        lotID,
		InputPaddyKg: in.InputPaddyKg,
		OperatorID:   in.OperatorID,
		Notes:        in.Notes,
		CreatedBy:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(batch)
}

// Complete closes a batch with its weighed outputs.
// POST /api/batches/:id/complete
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid batch id"})
	}
	var in dto.CompleteBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	in.Normalize()

	batch, lot, err := h.uc.Complete(c.Context(), production.CompleteBatchInput{
		BatchID: id,
		Output: entity.BatchOutput{
			RiceKg:       in.RiceKg,
			BrokenRiceKg: in.BrokenRiceKg,
			HuskKg:       in.HuskKg,
			BranKg:       in.BranKg,
			ImpurityKg:   in.ImpurityKg,
		},
		RiceGrade:   in.RiceGrade,
		BagWeightKg: in.BagWeightKg,
		PricePerKg:  in.PricePerKg,
		ExpiryDate:  in.ExpiryDate,
		StorageBin:  in.StorageBin,
		Notes:       in.Notes,
		CompletedBy: GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"batch":         batch,
		"finishedGoods": lot,
	})
}

// Cancel aborts an in-progress batch and returns its paddy.
// POST /api/batches/:id/cancel
func (h *ProductionHandler) Cancel(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid batch id"})
	}
	batch, err := h.uc.Cancel(c.Context(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batch)
}

// GetByID returns one batch.
// GET /api/batches/:id
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid batch id"})
	}
	batch, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batch)
}

// List returns batches, newest first.
// GET /api/batches?status=&from=&to=&limit=
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	batches, err := h.uc.List(c.Context(), repository.BatchFilter{
		Status:   entity.BatchStatus(c.Query("status")),
		DateFrom: queryDate(c, "from"),
		DateTo:   queryDate(c, "to"),
		Limit:    queryInt(c, "limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batches)
}
