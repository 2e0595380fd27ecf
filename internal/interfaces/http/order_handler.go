package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kmgmill/ricemill-api/internal/application/billing"
	"github.com/kmgmill/ricemill-api/internal/application/dto"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

// OrderHandler serves the sales order endpoints.
type OrderHandler struct {
	uc *billing.OrderUseCase
}

func NewOrderHandler(uc *billing.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create saves a draft order after checking stock per line.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}

	items := make([]billing.OrderLineInput, 0, len(in.Items))
	for _, line := range in.Items {
		items = append(items, billing.OrderLineInput{
			SKU:       line.SKU,
			QtyKg:     line.QtyKg,
			UnitPrice: line.UnitPrice,
		})
	}

	order, err := h.uc.CreateOrder(c.Context(), billing.CreateOrderInput{
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		CustomerAddress: in.CustomerAddress,
		CustomerPhone:   in.CustomerPhone,
		Items:           items,
		DeliveryDate:    in.DeliveryDate,
		ShippingAddress: in.ShippingAddress,
		PaymentTerms:    in.PaymentTerms,
		DeliveryMethod:  in.DeliveryMethod,
		DriverID:        in.DriverID,
		Notes:           in.Notes,
		CreatedBy:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateStatus moves an order along its lifecycle.
// PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid order id"})
	}
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	if in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status is required"})
	}

	order, err := h.uc.UpdateStatus(c.Context(), id, entity.OrderStatus(in.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// GetByID returns one order.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid order id"})
	}
	order, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// List returns orders, newest first.
// GET /api/orders?status=&from=&to=&limit=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.uc.List(c.Context(), repository.OrderFilter{
		Status:   entity.OrderStatus(c.Query("status")),
		DateFrom: queryDate(c, "from"),
		DateTo:   queryDate(c, "to"),
		Limit:    queryInt(c, "limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}
