package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/allocation"
	"github.com/jhoicas/Planta-api/internal/application/deliveries"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
)

// DeliveryHandler expone entregas individuales y su remisión PDF.
type DeliveryHandler struct {
	allocUC *allocation.UseCase
	pdfUC   *deliveries.PDFUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(allocUC *allocation.UseCase, pdfUC *deliveries.PDFUseCase) *DeliveryHandler {
	return &DeliveryHandler{allocUC: allocUC, pdfUC: pdfUC}
}

// GetByID godoc
// @Summary      Obtener entrega por ID
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.allocUC.GetDelivery(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrega no encontrada"})
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar la remisión en PDF
// @Tags         deliveries
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la entrega"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/pdf [get]
func (h *DeliveryHandler) PDF(c *fiber.Ctx) error {
	pdfBytes, err := h.pdfUC.Generate(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrega no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="remision.pdf"`)
	return c.Send(pdfBytes)
}
