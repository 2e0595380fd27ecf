package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kmgmill/ricemill-api/internal/application/dto"
	"github.com/kmgmill/ricemill-api/internal/domain"
)

// respondError maps domain errors onto HTTP status codes: 400 for
// validation and precondition violations, 404 for missing references,
// 500 for anything unrecognized.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE_RANGE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyInvoiced):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ALREADY_INVOICED", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ALREADY_COMPLETED", Message: err.Error()})
	case errors.Is(err, domain.ErrOrderNotConfirmed):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ORDER_NOT_CONFIRMED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
