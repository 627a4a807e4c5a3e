package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/usecase"
)

// ReportHandler expone los reportes de producción y pérdida.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// parseRange lee from/to de la query; último mes si faltan.
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return from, to, err
		}
		to = t
	}
	return from, to, nil
}

// ProductionByDay godoc
// @Summary      Producción por día y producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (2006-01-02)"
// @Param        to    query  string  false  "Hasta (2006-01-02)"
// @Success      200  {array}  dto.ProductionByDayDTO
// @Router       /api/reports/production [get]
func (h *ReportHandler) ProductionByDay(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas, use 2006-01-02"})
	}
	out, err := h.uc.ProductionByDay(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// StockSummary godoc
// @Summary      Stock disponible por producto
// @Description  Disponible (Σ IN − Σ OUT) por producto, recalculado desde el libro.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockSummaryDTO
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockSummary(c *fiber.Ctx) error {
	out, err := h.uc.StockSummary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// LossByProduct godoc
// @Summary      Pérdida acumulada por producto
// @Description  Teórico vs real de los empaletizados del rango, con porcentaje de pérdida.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (2006-01-02)"
// @Param        to    query  string  false  "Hasta (2006-01-02)"
// @Success      200  {array}  dto.LossByProductDTO
// @Router       /api/reports/loss [get]
func (h *ReportHandler) LossByProduct(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas, use 2006-01-02"})
	}
	out, err := h.uc.LossByProduct(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
