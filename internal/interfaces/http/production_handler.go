package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/production"
	"github.com/jhoicas/Planta-api/internal/domain"
)

// ProductionHandler maneja registros de producción y máquinas (protegido,
// roles admin y produccion).
type ProductionHandler struct {
	uc *production.UseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// RegisterRecord godoc
// @Summary      Registrar ciclos producidos por una máquina
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterProductionRequest  true  "máquina, producto, fecha, ciclos"
// @Success      201   {object}  dto.ProductionRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/records [post]
func (h *ProductionHandler) RegisterRecord(c *fiber.Ctx) error {
	var in dto.RegisterProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Register(c.Context(), GetUserID(c), in)
	if err != nil {
		return productionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateRecord godoc
// @Summary      Corregir los ciclos de un registro
// @Description  Solo permitido mientras el (producto, fecha) no esté empaletizado.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del registro"
// @Param        body  body  dto.UpdateProductionRequest  true  "ciclos"
// @Success      200   {object}  dto.ProductionRecordResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/records/{id} [put]
func (h *ProductionHandler) UpdateRecord(c *fiber.Ctx) error {
	var in dto.UpdateProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return productionError(c, err)
	}
	return c.JSON(out)
}

// DeleteRecord godoc
// @Summary      Eliminar un registro de producción
// @Tags         production
// @Security     Bearer
// @Param        id  path  string  true  "ID del registro"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/records/{id} [delete]
func (h *ProductionHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return productionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListRecordsByDate godoc
// @Summary      Listar registros de producción de un día
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  true  "Fecha (2006-01-02)"
// @Success      200   {array}  dto.ProductionRecordResponse
// @Router       /api/production/records [get]
func (h *ProductionHandler) ListRecordsByDate(c *fiber.Ctx) error {
	out, err := h.uc.ListByDate(c.Context(), c.Query("date"))
	if err != nil {
		return productionError(c, err)
	}
	return c.JSON(out)
}

// CreateMachine godoc
// @Summary      Registrar máquina
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMachineRequest  true  "código y nombre"
// @Success      201   {object}  dto.MachineResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/machines [post]
func (h *ProductionHandler) CreateMachine(c *fiber.Ctx) error {
	var in dto.CreateMachineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateMachine(c.Context(), in)
	if err != nil {
		return productionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMachines godoc
// @Summary      Listar máquinas
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MachineResponse
// @Router       /api/machines [get]
func (h *ProductionHandler) ListMachines(c *fiber.Ctx) error {
	out, err := h.uc.ListMachines(c.Context())
	if err != nil {
		return productionError(c, err)
	}
	return c.JSON(out)
}

// productionError mapea los errores de dominio del módulo de producción.
func productionError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrDuplicate:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un registro para esa máquina, fecha y producto"})
	case domain.ErrAlreadyPalletized:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_PALLETIZED", Message: "el día ya fue empaletizado; reverse el empaletizado primero"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
