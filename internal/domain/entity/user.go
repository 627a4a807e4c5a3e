package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleProduccion = "produccion" // registra producción y empaletizados
	RoleVentas     = "ventas"     // cotiza, confirma pedidos y entregas
)

// User representa un usuario del sistema (planta única, sin multi-empresa).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, produccion, ventas
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
