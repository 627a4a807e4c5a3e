package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/palletizing"
	"github.com/jhoicas/Planta-api/internal/domain"
)

// PalletizingHandler maneja el motor de empaletizado (protegido, roles admin
// y produccion).
type PalletizingHandler struct {
	uc *palletizing.UseCase
}

// NewPalletizingHandler construye el handler.
func NewPalletizingHandler(uc *palletizing.UseCase) *PalletizingHandler {
	return &PalletizingHandler{uc: uc}
}

// Pending godoc
// @Summary      Cola de días pendientes por empaletizar
// @Description  Días anteriores a hoy con producción sin conciliar. Los productos sin receta se reportan aparte.
// @Tags         palletizing
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PendingListResponse
// @Router       /api/palletizing/pending [get]
func (h *PalletizingHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.Pending(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Empaletizar un (producto, fecha)
// @Description  Concilia la producción teórica contra estibas completas y sueltas confirmadas; genera el IN y actualiza el saldo de sueltas en una sola transacción.
// @Tags         palletizing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReconcileRequest  true  "producto, fecha, estibas completas, sueltas restantes"
// @Success      201   {object}  dto.PalletizationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/palletizing/reconcile [post]
func (h *PalletizingHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Reconcile(c.Context(), GetUserID(c), in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o producción no encontrada"})
		case domain.ErrMissingRecipe:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MISSING_RECIPE", Message: "el producto no tiene receta utilizable para derivar piezas por estiba"})
		case domain.ErrDuplicate:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el (producto, fecha) ya fue empaletizado"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_ELIGIBLE", Message: "solo se empaletizan días anteriores a hoy"})
		case domain.ErrNegativeLoss:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NEGATIVE_LOSS", Message: "las piezas confirmadas superan las producidas; revise estibas, sueltas o la receta"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Revertir un empaletizado
// @Description  Solo el empaletizado más reciente del producto es reversible; elimina el IN y restaura el saldo de sueltas.
// @Tags         palletizing
// @Security     Bearer
// @Param        id  path  string  true  "ID del empaletizado"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/palletizing/{id} [delete]
func (h *PalletizingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		switch err {
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empaletizado no encontrado"})
		case domain.ErrNotLatestPalletization:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_LATEST", Message: "solo se puede revertir el empaletizado más reciente del producto"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FormPallet godoc
// @Summary      Consolidar sueltas en una estiba completa
// @Description  Si el saldo de sueltas alcanza una estiba, genera un IN por esa estiba y descuenta el saldo.
// @Tags         palletizing
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      201  {object}  dto.FormPalletResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/palletizing/form-pallet/{product_id} [post]
func (h *PalletizingHandler) FormPallet(c *fiber.Ctx) error {
	out, err := h.uc.FormPalletFromLoose(c.Context(), GetUserID(c), c.Params("product_id"))
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		case domain.ErrMissingRecipe:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MISSING_RECIPE", Message: "el producto no tiene receta utilizable"})
		case domain.ErrInsufficientStock:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_LOOSE", Message: "las sueltas no alcanzan para una estiba completa"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener un empaletizado
// @Tags         palletizing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del empaletizado"
// @Success      200  {object}  dto.PalletizationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/palletizing/{id} [get]
func (h *PalletizingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empaletizado no encontrado"})
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Historial de empaletizados de un producto
// @Tags         palletizing
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.PalletizationResponse
// @Router       /api/palletizing [get]
func (h *PalletizingHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
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
	out, err := h.uc.ListByProduct(c.Context(), productID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
