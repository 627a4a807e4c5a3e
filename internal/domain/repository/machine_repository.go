package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// MachineRepository define el puerto de persistencia para máquinas.
type MachineRepository interface {
	Create(machine *entity.Machine) error
	GetByID(id string) (*entity.Machine, error)
	List() ([]*entity.Machine, error)
}
