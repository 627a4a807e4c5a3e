package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/allocation"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
)

// ProductionOrderHandler maneja el ciclo de vida de las órdenes de producción.
type ProductionOrderHandler struct {
	uc *allocation.UseCase
}

// NewProductionOrderHandler construye el handler.
func NewProductionOrderHandler(uc *allocation.UseCase) *ProductionOrderHandler {
	return &ProductionOrderHandler{uc: uc}
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         production-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtro por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.ProductionOrderResponse
// @Router       /api/production-orders [get]
func (h *ProductionOrderHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.ListProductionOrders(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de una orden de producción
// @Description  COMPLETED y CANCELLED liberan la reserva sobre el stock compartido.
// @Tags         production-orders
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true  "ID de la orden"
// @Param        status  query  string  true  "Estado destino"
// @Success      200  {object}  dto.ProductionOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/status [put]
func (h *ProductionOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	status := c.Query("status")
	if status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status es requerido"})
	}
	out, err := h.uc.UpdateProductionOrderStatus(c.Context(), c.Params("id"), status)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de producción no encontrada"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de estado no permitida"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(out)
}
