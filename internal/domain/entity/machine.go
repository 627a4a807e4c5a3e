package entity

import "time"

// Machine es una máquina vibrocompactadora de la planta.
type Machine struct {
	ID        string
	Code      string // código corto: "VC-01"
	Name      string
	Active    bool
	CreatedAt time.Time
}
