package palletizing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// Los repositorios de prueba comparten un fakeStore; el fakeTxRunner pasa la
// función directo con esos repos (sin transacción real: los casos de error
// retornan antes de escribir, que es lo que se verifica).
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products  map[string]*entity.Product
	records   []*entity.ProductionRecord
	pallets   []*entity.Palletization
	loose     map[string]entity.LoosePiecesBalance
	movements []*entity.InventoryMovement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*entity.Product{},
		loose:    map[string]entity.LoosePiecesBalance{},
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *fakeProductRepo) UpsertRecipe(recipe *entity.Recipe) error {
	if p, ok := r.s.products[recipe.ProductID]; ok {
		p.Recipe = recipe
	}
	return nil
}

type fakeRecordRepo struct{ s *fakeStore }

func (r *fakeRecordRepo) Create(rec *entity.ProductionRecord) error {
	r.s.records = append(r.s.records, rec)
	return nil
}
func (r *fakeRecordRepo) Update(rec *entity.ProductionRecord) error { return nil }
func (r *fakeRecordRepo) Delete(id string) error {
	for i, rec := range r.s.records {
		if rec.ID == id {
			r.s.records = append(r.s.records[:i], r.s.records[i+1:]...)
			return nil
		}
	}
	return nil
}
func (r *fakeRecordRepo) GetByID(id string) (*entity.ProductionRecord, error) {
	for _, rec := range r.s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}
func (r *fakeRecordRepo) ListByDate(date time.Time) ([]*entity.ProductionRecord, error) {
	var out []*entity.ProductionRecord
	for _, rec := range r.s.records {
		if sameDay(rec.Date, date) {
			out = append(out, rec)
		}
	}
	return out, nil
}
func (r *fakeRecordRepo) ListByProductAndDate(productID string, date time.Time) ([]*entity.ProductionRecord, error) {
	var out []*entity.ProductionRecord
	for _, rec := range r.s.records {
		if rec.ProductID == productID && sameDay(rec.Date, date) {
			out = append(out, rec)
		}
	}
	return out, nil
}
func (r *fakeRecordRepo) ListUnreconciledBefore(before time.Time) ([]*entity.ProductionRecord, error) {
	var out []*entity.ProductionRecord
	for _, rec := range r.s.records {
		if rec.Date.Before(before) && !r.s.reconciled(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
func (r *fakeRecordRepo) ListUnreconciledBeforeByProduct(productID string, before time.Time) ([]*entity.ProductionRecord, error) {
	all, _ := r.ListUnreconciledBefore(before)
	var out []*entity.ProductionRecord
	for _, rec := range all {
		if rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// reconciled replica el filtro SQL: (producto, fecha) con empaletizado o con
// movimiento legado enlazado al registro.
func (s *fakeStore) reconciled(rec *entity.ProductionRecord) bool {
	for _, p := range s.pallets {
		if p.ProductID == rec.ProductID && sameDay(p.Date, rec.Date) {
			return true
		}
	}
	for _, m := range s.movements {
		if m.ProductionRecordID != nil && *m.ProductionRecordID == rec.ID {
			return true
		}
	}
	return false
}

type fakePalletRepo struct{ s *fakeStore }

func (r *fakePalletRepo) Create(p *entity.Palletization) error {
	for _, existing := range r.s.pallets {
		if existing.ProductID == p.ProductID && sameDay(existing.Date, p.Date) {
			return domain.ErrDuplicate
		}
	}
	r.s.pallets = append(r.s.pallets, p)
	return nil
}
func (r *fakePalletRepo) Delete(id string) error {
	for i, p := range r.s.pallets {
		if p.ID == id {
			r.s.pallets = append(r.s.pallets[:i], r.s.pallets[i+1:]...)
			return nil
		}
	}
	return nil
}
func (r *fakePalletRepo) GetByID(id string) (*entity.Palletization, error) {
	for _, p := range r.s.pallets {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakePalletRepo) GetByProductAndDate(productID string, date time.Time) (*entity.Palletization, error) {
	for _, p := range r.s.pallets {
		if p.ProductID == productID && sameDay(p.Date, date) {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakePalletRepo) GetLatestByProduct(productID string) (*entity.Palletization, error) {
	var latest *entity.Palletization
	for _, p := range r.s.pallets {
		if p.ProductID != productID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	return latest, nil
}
func (r *fakePalletRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Palletization, error) {
	var out []*entity.Palletization
	for _, p := range r.s.pallets {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeLooseRepo struct{ s *fakeStore }

func (r *fakeLooseRepo) Get(productID string) (*entity.LoosePiecesBalance, error) {
	b, ok := r.s.loose[productID]
	if !ok {
		return &entity.LoosePiecesBalance{ProductID: productID}, nil
	}
	return &b, nil
}
func (r *fakeLooseRepo) GetForUpdate(productID string) (*entity.LoosePiecesBalance, error) {
	return r.Get(productID)
}
func (r *fakeLooseRepo) Upsert(balance *entity.LoosePiecesBalance) error {
	r.s.loose[balance.ProductID] = *balance
	return nil
}

type fakeMovRepo struct{ s *fakeStore }

func (r *fakeMovRepo) Create(m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *fakeMovRepo) Delete(id string) error {
	for i, m := range r.s.movements {
		if m.ID == id {
			r.s.movements = append(r.s.movements[:i], r.s.movements[i+1:]...)
			return nil
		}
	}
	return nil
}
func (r *fakeMovRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}
func (r *fakeMovRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovRepo) AvailablePieces(productID string) (int64, error) {
	var total int64
	for _, m := range r.s.movements {
		if m.ProductID != productID {
			continue
		}
		if m.Type == entity.MovementTypeIN {
			total += m.Pieces
		} else {
			total -= m.Pieces
		}
	}
	return total, nil
}
func (r *fakeMovRepo) HasLegacyIN(productID string, date time.Time) (bool, error) {
	for _, m := range r.s.movements {
		if m.ProductionRecordID == nil || m.ProductID != productID {
			continue
		}
		for _, rec := range r.s.records {
			if rec.ID == *m.ProductionRecordID && sameDay(rec.Date, date) {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakeTxRunner struct{ s *fakeStore }

func (tx *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	recordRepo repository.ProductionRecordRepository,
	palletRepo repository.PalletizationRepository,
	looseRepo repository.LooseBalanceRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return fn(
		&fakeProductRepo{s: tx.s},
		&fakeRecordRepo{s: tx.s},
		&fakePalletRepo{s: tx.s},
		&fakeLooseRepo{s: tx.s},
		&fakeMovRepo{s: tx.s},
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: adoquín con receta completa, 19 ciclos de ayer y 30 sueltas.
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)

const (
	productID = "prod-adoquin-01"
	yesterday = "2026-03-09"
)

func newTestUseCase(s *fakeStore) *UseCase {
	uc := NewUseCase(
		&fakeTxRunner{s: s},
		&fakeProductRepo{s: s},
		&fakeRecordRepo{s: s},
		&fakePalletRepo{s: s},
		&fakeLooseRepo{s: s},
	)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func seedAdoquin(s *fakeStore) {
	s.products[productID] = &entity.Product{
		ID:       productID,
		SKU:      "ADQ-001",
		Name:     "Adoquín peatonal 6cm",
		Category: entity.CategoryAdoquin,
		Recipe: &entity.Recipe{
			ProductID:       productID,
			PiecesPerCycle:  50,
			PiecesPerPallet: 100,
			PiecesPerM2:     decimal.NewFromFloat(38.5),
		},
	}
	date, _ := time.ParseInLocation(DateLayout, yesterday, time.Local)
	s.records = append(s.records, &entity.ProductionRecord{
		ID:        "rec-1",
		MachineID: "maq-1",
		ProductID: productID,
		Date:      date,
		Cycles:    19,
	})
	s.loose[productID] = entity.LoosePiecesBalance{ProductID: productID, Pieces: 30}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_ConservaLasPiezas(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	uc := newTestUseCase(s)

	// 950 teóricas + 30 sueltas antes = 900 reales + 50 sueltas después + 30 pérdida
	resp, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID:        productID,
		Date:             yesterday,
		CompletePallets:  9,
		LoosePiecesAfter: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(950), resp.TheoreticalPieces)
	assert.Equal(t, int64(30), resp.LoosePiecesBefore)
	assert.Equal(t, int64(900), resp.RealPieces, "9 estibas × 100 piezas")
	assert.Equal(t, int64(30), resp.LossPieces)
	assert.False(t, resp.Approximated)
	assert.Equal(t, resp.RealPieces+resp.LoosePiecesAfter+resp.LossPieces,
		resp.TheoreticalPieces+resp.LoosePiecesBefore,
		"la conciliación debe conservar cada pieza producida")

	// Efectos colaterales: movimiento IN y saldo de sueltas actualizado.
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementTypeIN, s.movements[0].Type)
	assert.Equal(t, int64(900), s.movements[0].Pieces)
	require.NotNil(t, s.movements[0].PalletizationID)
	assert.Equal(t, resp.ID, *s.movements[0].PalletizationID)
	assert.Equal(t, int64(50), s.loose[productID].Pieces, "el saldo de sueltas arranca la próxima jornada en 50")
}

func TestReconcile_PerdidaNegativaRechazada(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	uc := newTestUseCase(s)

	// 10 estibas (1000 piezas) + 50 sueltas > 950 + 30 producidas.
	_, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID:        productID,
		Date:             yesterday,
		CompletePallets:  10,
		LoosePiecesAfter: 50,
	})
	assert.ErrorIs(t, err, domain.ErrNegativeLoss)
	assert.Empty(t, s.pallets, "nada debe escribirse cuando la conciliación se rechaza")
	assert.Empty(t, s.movements)
	assert.Equal(t, int64(30), s.loose[productID].Pieces, "el saldo de sueltas no debe tocarse")
}

func TestReconcile_DiaYaConciliado(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	uc := newTestUseCase(s)

	_, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID: productID, Date: yesterday, CompletePallets: 9, LoosePiecesAfter: 50,
	})
	require.NoError(t, err)

	_, err = uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID: productID, Date: yesterday, CompletePallets: 9, LoosePiecesAfter: 50,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "un (producto, fecha) solo se concilia una vez")
}

func TestReconcile_HoyNoEsElegible(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	uc := newTestUseCase(s)

	today := fixedNow.Format(DateLayout)
	_, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID: productID, Date: today, CompletePallets: 1, LoosePiecesAfter: 0,
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "la producción de hoy sigue en curado")
}

func TestReconcile_SinReceta(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	s.products[productID].Recipe = nil
	uc := newTestUseCase(s)

	_, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID: productID, Date: yesterday, CompletePallets: 9, LoosePiecesAfter: 50,
	})
	assert.ErrorIs(t, err, domain.ErrMissingRecipe)
}

func TestReconcile_INLegadoBloqueaElDia(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	recID := "rec-1"
	s.movements = append(s.movements, &entity.InventoryMovement{
		ID:                 "mov-legacy",
		ProductID:          productID,
		Type:               entity.MovementTypeIN,
		Pieces:             950,
		ProductionRecordID: &recID,
	})
	uc := newTestUseCase(s)

	_, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID: productID, Date: yesterday, CompletePallets: 9, LoosePiecesAfter: 50,
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "un día ya contado por un IN legado no se vuelve a conciliar")
}

func TestReconcile_ProductoInexistente(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s)

	_, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID: "no-existe", Date: yesterday, CompletePallets: 1, LoosePiecesAfter: 0,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_RestauraElSaldoPrevio(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	uc := newTestUseCase(s)

	resp, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID: productID, Date: yesterday, CompletePallets: 9, LoosePiecesAfter: 50,
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), resp.ID))

	assert.Empty(t, s.pallets, "el empaletizado debe desaparecer")
	assert.Empty(t, s.movements, "el IN generado debe revertirse")
	assert.Equal(t, int64(30), s.loose[productID].Pieces,
		"el saldo de sueltas vuelve al valor previo al evento, no a cero")
}

func TestDelete_ReconciliarDeNuevoReproduceElEvento(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	uc := newTestUseCase(s)

	req := dto.ReconcileRequest{
		ProductID: productID, Date: yesterday, CompletePallets: 9, LoosePiecesAfter: 50,
	}
	original, err := uc.Reconcile(context.Background(), "user-1", req)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), original.ID))

	// El día vuelve a la cola; repetir la conciliación con los mismos datos
	// debe reproducir exactamente el evento eliminado.
	repeated, err := uc.Reconcile(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.Equal(t, original.TheoreticalPieces, repeated.TheoreticalPieces)
	assert.Equal(t, original.LoosePiecesBefore, repeated.LoosePiecesBefore,
		"el saldo previo restaurado alimenta la repetición")
	assert.Equal(t, original.RealPieces, repeated.RealPieces)
	assert.Equal(t, original.LossPieces, repeated.LossPieces)
	assert.Equal(t, original.LoosePiecesAfter, repeated.LoosePiecesAfter)
	assert.Equal(t, original.Approximated, repeated.Approximated)

	require.Len(t, s.movements, 1, "un único IN vigente tras el ciclo eliminar-repetir")
	assert.Equal(t, int64(900), s.movements[0].Pieces)
	assert.Equal(t, int64(50), s.loose[productID].Pieces)
}

func TestDelete_SoloElMasReciente(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	older := &entity.Palletization{
		ID: "pal-old", ProductID: productID,
		Date:      time.Date(2026, 3, 7, 0, 0, 0, 0, time.Local),
		CreatedAt: fixedNow.Add(-48 * time.Hour),
	}
	newer := &entity.Palletization{
		ID: "pal-new", ProductID: productID,
		Date:      time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local),
		CreatedAt: fixedNow.Add(-24 * time.Hour),
	}
	s.pallets = append(s.pallets, older, newer)
	uc := newTestUseCase(s)

	err := uc.Delete(context.Background(), older.ID)
	assert.ErrorIs(t, err, domain.ErrNotLatestPalletization,
		"eliminar uno anterior rompería la cadena de saldos de sueltas")
}

func TestDelete_Inexistente(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s)
	assert.ErrorIs(t, uc.Delete(context.Background(), "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// FormPalletFromLoose
// ──────────────────────────────────────────────────────────────────────────────

func TestFormPallet_ConsolidaSueltas(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	s.loose[productID] = entity.LoosePiecesBalance{ProductID: productID, Pieces: 130}
	uc := newTestUseCase(s)

	resp, err := uc.FormPalletFromLoose(context.Background(), "user-1", productID)
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.PiecesPerPallet)
	assert.Equal(t, int64(30), resp.LoosePiecesLeft)
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementTypeIN, s.movements[0].Type)
	assert.Equal(t, int64(100), s.movements[0].Pieces)
	assert.Nil(t, s.movements[0].PalletizationID, "consolidar sueltas no crea fila de empaletizado")
}

func TestFormPallet_SueltasInsuficientes(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	s.loose[productID] = entity.LoosePiecesBalance{ProductID: productID, Pieces: 80}
	uc := newTestUseCase(s)

	_, err := uc.FormPalletFromLoose(context.Background(), "user-1", productID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"80 sueltas no alcanzan para una estiba de 100")
	assert.Empty(t, s.movements)
	assert.Equal(t, int64(80), s.loose[productID].Pieces)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pending
// ──────────────────────────────────────────────────────────────────────────────

func TestPending_AgrupaPorProductoYFecha(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	date, _ := time.ParseInLocation(DateLayout, yesterday, time.Local)
	// Segunda máquina, mismo producto y día: los ciclos se acumulan.
	s.records = append(s.records, &entity.ProductionRecord{
		ID: "rec-2", MachineID: "maq-2", ProductID: productID, Date: date, Cycles: 5,
	})
	uc := newTestUseCase(s)

	resp, err := uc.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Pending, 1, "dos registros del mismo (producto, fecha) forman un solo grupo")

	group := resp.Pending[0]
	assert.Equal(t, int64(24), group.Cycles)
	assert.Equal(t, int64(1200), group.TheoreticalPieces, "24 ciclos × 50 piezas")
	assert.Equal(t, int64(30), group.LoosePiecesBefore)
	assert.Empty(t, resp.MissingRecipe)
}

func TestPending_ProductoSinRecetaSeReportaAparte(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	s.products[productID].Recipe = nil
	uc := newTestUseCase(s)

	resp, err := uc.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Pending)
	require.Len(t, resp.MissingRecipe, 1, "sin receta el día queda fuera de la cola, visible")
	assert.Equal(t, productID, resp.MissingRecipe[0].ProductID)
}

func TestPending_DiaConciliadoSaleDeLaCola(t *testing.T) {
	s := newFakeStore()
	seedAdoquin(s)
	uc := newTestUseCase(s)

	_, err := uc.Reconcile(context.Background(), "user-1", dto.ReconcileRequest{
		ProductID: productID, Date: yesterday, CompletePallets: 9, LoosePiecesAfter: 50,
	})
	require.NoError(t, err)

	resp, err := uc.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Pending)
}
