// Package production implementa el registro diario de producción: ciclos por
// máquina/día/producto. Es la fuente de verdad del material físico que existe
// pero aún no es inventario terminado.
package production

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// DateLayout formato de fecha de producción en la API.
const DateLayout = "2006-01-02"

// UseCase registro de producción y catálogo de máquinas.
type UseCase struct {
	recordRepo  repository.ProductionRecordRepository
	machineRepo repository.MachineRepository
	productRepo repository.ProductRepository
	palletRepo  repository.PalletizationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	recordRepo repository.ProductionRecordRepository,
	machineRepo repository.MachineRepository,
	productRepo repository.ProductRepository,
	palletRepo repository.PalletizationRepository,
) *UseCase {
	return &UseCase{
		recordRepo:  recordRepo,
		machineRepo: machineRepo,
		productRepo: productRepo,
		palletRepo:  palletRepo,
	}
}

// Register registra los ciclos de una máquina para un producto y un día.
// La unicidad (máquina, fecha, producto) la garantiza la base de datos.
func (uc *UseCase) Register(ctx context.Context, userID string, in dto.RegisterProductionRequest) (*dto.ProductionRecordResponse, error) {
	if in.MachineID == "" || in.ProductID == "" || in.Cycles <= 0 {
		return nil, domain.ErrInvalidInput
	}
	date, err := time.ParseInLocation(DateLayout, in.Date, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	machine, err := uc.machineRepo.GetByID(in.MachineID)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	// Un día ya conciliado no admite producción nueva: alteraría un
	// empaletizado histórico.
	if p, err := uc.palletRepo.GetByProductAndDate(in.ProductID, date); err != nil {
		return nil, err
	} else if p != nil {
		return nil, domain.ErrAlreadyPalletized
	}

	now := time.Now()
	record := &entity.ProductionRecord{
		ID:        uuid.New().String(),
		MachineID: in.MachineID,
		ProductID: in.ProductID,
		Date:      date,
		Cycles:    in.Cycles,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.recordRepo.Create(record); err != nil {
		return nil, err
	}
	return toRecordResponse(record), nil
}

// Update corrige los ciclos de un registro, solo si el día no fue conciliado.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateProductionRequest) (*dto.ProductionRecordResponse, error) {
	if in.Cycles <= 0 {
		return nil, domain.ErrInvalidInput
	}
	record, err := uc.recordRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	if p, err := uc.palletRepo.GetByProductAndDate(record.ProductID, record.Date); err != nil {
		return nil, err
	} else if p != nil {
		return nil, domain.ErrAlreadyPalletized
	}
	record.Cycles = in.Cycles
	record.UpdatedAt = time.Now()
	if err := uc.recordRepo.Update(record); err != nil {
		return nil, err
	}
	return toRecordResponse(record), nil
}

// Delete elimina un registro de producción, solo si el día no fue conciliado.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	record, err := uc.recordRepo.GetByID(id)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrNotFound
	}
	if p, err := uc.palletRepo.GetByProductAndDate(record.ProductID, record.Date); err != nil {
		return err
	} else if p != nil {
		return domain.ErrAlreadyPalletized
	}
	return uc.recordRepo.Delete(id)
}

// ListByDate lista los registros de producción de un día.
func (uc *UseCase) ListByDate(ctx context.Context, dateStr string) ([]dto.ProductionRecordResponse, error) {
	date, err := time.ParseInLocation(DateLayout, dateStr, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	records, err := uc.recordRepo.ListByDate(date)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, *toRecordResponse(r))
	}
	return out, nil
}

// CreateMachine registra una máquina nueva.
func (uc *UseCase) CreateMachine(ctx context.Context, in dto.CreateMachineRequest) (*dto.MachineResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	machine := &entity.Machine{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.machineRepo.Create(machine); err != nil {
		return nil, err
	}
	return toMachineResponse(machine), nil
}

// ListMachines lista las máquinas de la planta.
func (uc *UseCase) ListMachines(ctx context.Context) ([]dto.MachineResponse, error) {
	machines, err := uc.machineRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.MachineResponse, 0, len(machines))
	for _, m := range machines {
		out = append(out, *toMachineResponse(m))
	}
	return out, nil
}

func toRecordResponse(r *entity.ProductionRecord) *dto.ProductionRecordResponse {
	return &dto.ProductionRecordResponse{
		ID:        r.ID,
		MachineID: r.MachineID,
		ProductID: r.ProductID,
		Date:      r.Date.Format(DateLayout),
		Cycles:    r.Cycles,
		CreatedAt: r.CreatedAt,
	}
}

func toMachineResponse(m *entity.Machine) *dto.MachineResponse {
	return &dto.MachineResponse{
		ID:     m.ID,
		Code:   m.Code,
		Name:   m.Name,
		Active: m.Active,
	}
}
