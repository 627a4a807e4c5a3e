package dto

import "time"

// RegisterProductionRequest body para POST /api/production/records.
// La fecha se interpreta como día de producción (formato 2006-01-02).
type RegisterProductionRequest struct {
	MachineID string `json:"machine_id"`
	ProductID string `json:"product_id"`
	Date      string `json:"date"`
	Cycles    int64  `json:"cycles"`
}

// UpdateProductionRequest body para PUT /api/production/records/:id.
type UpdateProductionRequest struct {
	Cycles int64 `json:"cycles"`
}

// ProductionRecordResponse registro de producción en respuestas.
type ProductionRecordResponse struct {
	ID        string    `json:"id"`
	MachineID string    `json:"machine_id"`
	ProductID string    `json:"product_id"`
	Date      string    `json:"date"`
	Cycles    int64     `json:"cycles"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMachineRequest body para POST /api/machines.
type CreateMachineRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// MachineResponse máquina en respuestas.
type MachineResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
