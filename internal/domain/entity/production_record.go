package entity

import "time"

// ProductionRecord registra los ciclos producidos por una máquina, un día, para
// un producto. Único por (máquina, fecha, producto). Es la fuente de verdad de
// "material físico que existe pero aún no es inventario terminado".
type ProductionRecord struct {
	ID        string
	MachineID string
	ProductID string
	Date      time.Time // solo fecha (truncada a día)
	Cycles    int64
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
