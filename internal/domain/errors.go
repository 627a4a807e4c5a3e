package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los mapean a códigos de estado; ningún caso de uso los "corrige" solo.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrMissingRecipe: el producto no tiene receta, o la receta no define
	// piezas por estiba ni (m² por estiba + piezas por m²); sin eso no hay conversión.
	ErrMissingRecipe = errors.New("producto sin receta de conversión")

	// ErrNegativeLoss: las estibas + sueltas confirmadas superan lo físicamente
	// producido (teóricas + sueltas anteriores). Nunca se recorta en silencio.
	ErrNegativeLoss = errors.New("pérdida negativa: cantidades confirmadas exceden la producción")

	// ErrInsufficientStock: la cantidad solicitada excede el stock disponible
	// o el saldo pendiente del pedido.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrNotLatestPalletization: solo se puede eliminar el empaletizado más
	// reciente de un producto; los anteriores ya fueron consumidos por la cadena
	// de saldos de piezas sueltas.
	ErrNotLatestPalletization = errors.New("solo puede eliminarse el empaletizado más reciente del producto")

	// ErrAlreadyPalletized: el día de producción ya fue conciliado; el registro
	// de producción no puede editarse ni eliminarse.
	ErrAlreadyPalletized = errors.New("la producción de ese día ya fue empaletizada")
)
