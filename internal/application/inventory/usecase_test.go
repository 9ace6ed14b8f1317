package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpmotos/vpmotos-api/internal/application/inventory"
	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El runner clona el estado antes del callback y lo restaura
// si falla, imitando el rollback transaccional.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	products    map[string]*entity.Product
	movements   []*entity.MovementEntry
	adjustments []*entity.AdjustmentEntry
}

func (s *memState) clone() *memState {
	c := &memState{products: map[string]*entity.Product{}}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	c.movements = append(c.movements, s.movements...)
	c.adjustments = append(c.adjustments, s.adjustments...)
	return c
}

type memProductRepo struct{ s *memState }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }
func (r *memProductRepo) GetByCodeForUpdate(code string) (*entity.Product, error) {
	return r.GetByCode(code)
}
func (r *memProductRepo) SetStock(id string, qty decimal.Decimal) error {
	if p, ok := r.s.products[id]; ok {
		p.StockOnHand = qty
	}
	return nil
}
func (r *memProductRepo) List(onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Deactivate(id string) error {
	if p, ok := r.s.products[id]; ok {
		p.Active = false
	}
	return nil
}

type memMovementRepo struct{ s *memState }

func (r *memMovementRepo) Append(e *entity.MovementEntry) error {
	r.s.movements = append(r.s.movements, e)
	return nil
}
func (r *memMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *memMovementRepo) ListByReference(reference string) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.s.movements {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *memMovementRepo) TotalsByProduct(productID string) (*repository.LedgerTotals, error) {
	totals := &repository.LedgerTotals{}
	for _, m := range r.s.movements {
		if m.ProductID != productID {
			continue
		}
		if m.Kind == entity.MovementENTRY {
			totals.Entries = totals.Entries.Add(m.Quantity)
		} else {
			totals.Exits = totals.Exits.Add(m.Quantity)
		}
	}
	return totals, nil
}

type memAdjustmentRepo struct{ s *memState }

func (r *memAdjustmentRepo) Append(e *entity.AdjustmentEntry) error {
	r.s.adjustments = append(r.s.adjustments, e)
	return nil
}
func (r *memAdjustmentRepo) ListByProduct(productID string, limit, offset int) ([]*entity.AdjustmentEntry, error) {
	var out []*entity.AdjustmentEntry
	for _, a := range r.s.adjustments {
		if a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memTxRunner struct{ s *memState }

func (r *memTxRunner) RunInSchema(ctx context.Context, schema string, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	adjustmentRepo repository.AdjustmentRepository,
) error) error {
	snapshot := r.s.clone()
	err := fn(&memProductRepo{s: r.s}, &memMovementRepo{s: r.s}, &memAdjustmentRepo{s: r.s})
	if err != nil {
		*r.s = *snapshot
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const productID = "p0000000-0000-0000-0000-000000000001"
const userID = "u0000000-0000-0000-0000-000000000001"

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newFixture() (*inventory.UseCase, *memState) {
	state := &memState{products: map[string]*entity.Product{
		productID: {
			ID: productID, Code: "LUB-00000001", Name: "Aceite 10W40",
			SalePrice: dec("12.00"), StockOnHand: dec("10"), Active: true,
		},
	}}
	return inventory.NewUseCase(&memTxRunner{s: state}), state
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterSaleExit
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterSaleExit(t *testing.T) {
	uc, state := newFixture()

	err := uc.RegisterSaleExit(context.Background(), "suc_norte", inventory.SaleExitInput{
		ProductID:     productID,
		UserID:        userID,
		Quantity:      dec("3"),
		InvoiceNumber: "FAC-000042",
	})
	require.NoError(t, err)

	assert.True(t, dec("7").Equal(state.products[productID].StockOnHand))
	require.Len(t, state.movements, 1)
	assert.Equal(t, entity.MovementEXIT, state.movements[0].Kind)
	assert.Equal(t, "Venta #FAC-000042", state.movements[0].Reason)
	assert.Equal(t, "FAC-000042", state.movements[0].Reference)
}

func TestRegisterSaleExit_StockInsuficiente(t *testing.T) {
	uc, state := newFixture()

	err := uc.RegisterSaleExit(context.Background(), "suc_norte", inventory.SaleExitInput{
		ProductID:     productID,
		UserID:        userID,
		Quantity:      dec("11"),
		InvoiceNumber: "FAC-000042",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, dec("10").Equal(state.products[productID].StockOnHand), "el stock no se toca")
	assert.Empty(t, state.movements, "no debe quedar asiento")
}

func TestRegisterSaleExit_ProductoInactivo(t *testing.T) {
	uc, state := newFixture()
	state.products[productID].Active = false

	err := uc.RegisterSaleExit(context.Background(), "suc_norte", inventory.SaleExitInput{
		ProductID: productID, UserID: userID, Quantity: dec("1"), InvoiceNumber: "FAC-000001",
	})
	assert.ErrorIs(t, err, domain.ErrProductMissing)
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterEntry
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterEntry(t *testing.T) {
	uc, state := newFixture()
	price := dec("8.50")

	err := uc.RegisterEntry(context.Background(), "suc_norte", inventory.EntryInput{
		ProductID: productID,
		UserID:    userID,
		Quantity:  dec("5"),
		UnitPrice: &price,
		Reason:    "Compra a proveedor",
		Reference: "OC-2025-011",
	})
	require.NoError(t, err)

	product := state.products[productID]
	assert.True(t, dec("15").Equal(product.StockOnHand))
	assert.NotNil(t, product.LastPurchase, "la entrada registra la última compra")

	require.Len(t, state.movements, 1)
	assert.Equal(t, entity.MovementENTRY, state.movements[0].Kind)
	assert.Equal(t, "Compra a proveedor", state.movements[0].Reason)
	require.NotNil(t, state.movements[0].UnitPrice)
	assert.True(t, price.Equal(*state.movements[0].UnitPrice))
}

func TestRegisterEntry_CantidadInvalida(t *testing.T) {
	uc, _ := newFixture()
	err := uc.RegisterEntry(context.Background(), "suc_norte", inventory.EntryInput{
		ProductID: productID, UserID: userID, Quantity: dec("-5"), Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterAdjustment
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterAdjustment_Entry(t *testing.T) {
	uc, state := newFixture()

	err := uc.RegisterAdjustment(context.Background(), "suc_norte", inventory.AdjustmentInput{
		ProductID: productID, UserID: userID,
		Kind: entity.AdjustmentENTRY, Quantity: dec("2"), Reason: "conteo físico",
	})
	require.NoError(t, err)

	assert.True(t, dec("12").Equal(state.products[productID].StockOnHand))
	require.Len(t, state.adjustments, 1)
	require.Len(t, state.movements, 1)
	assert.Equal(t, "Ajuste de inventario: conteo físico", state.movements[0].Reason)
}

func TestRegisterAdjustment_SetPersisteDelta(t *testing.T) {
	uc, state := newFixture()

	// stock 10, SET 7 -> delta -3, asiento EXIT por 3
	err := uc.RegisterAdjustment(context.Background(), "suc_norte", inventory.AdjustmentInput{
		ProductID: productID, UserID: userID,
		Kind: entity.AdjustmentSET, Quantity: dec("7"), Reason: "inventario anual",
	})
	require.NoError(t, err)

	assert.True(t, dec("7").Equal(state.products[productID].StockOnHand))

	require.Len(t, state.adjustments, 1)
	assert.Equal(t, entity.AdjustmentSET, state.adjustments[0].Kind)
	assert.True(t, dec("-3").Equal(state.adjustments[0].Quantity), "se persiste el delta aplicado")

	require.Len(t, state.movements, 1)
	assert.Equal(t, entity.MovementEXIT, state.movements[0].Kind)
	assert.True(t, dec("3").Equal(state.movements[0].Quantity), "el asiento registra el delta absoluto")
}

func TestRegisterAdjustment_SetSinCambio(t *testing.T) {
	uc, state := newFixture()

	err := uc.RegisterAdjustment(context.Background(), "suc_norte", inventory.AdjustmentInput{
		ProductID: productID, UserID: userID,
		Kind: entity.AdjustmentSET, Quantity: dec("10"), Reason: "verificación",
	})
	require.NoError(t, err)

	assert.Len(t, state.adjustments, 1, "el ajuste queda auditado aunque no mueva stock")
	assert.Empty(t, state.movements, "delta cero no genera asiento")
}

func TestRegisterAdjustment_ExitDejaStockNegativo(t *testing.T) {
	uc, state := newFixture()

	err := uc.RegisterAdjustment(context.Background(), "suc_norte", inventory.AdjustmentInput{
		ProductID: productID, UserID: userID,
		Kind: entity.AdjustmentEXIT, Quantity: dec("11"), Reason: "merma",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, dec("10").Equal(state.products[productID].StockOnHand))
	assert.Empty(t, state.adjustments, "la transacción completa se revierte")
}

func TestRegisterAdjustment_KindInvalido(t *testing.T) {
	uc, _ := newFixture()
	err := uc.RegisterAdjustment(context.Background(), "suc_norte", inventory.AdjustmentInput{
		ProductID: productID, UserID: userID, Kind: "RESET", Quantity: dec("1"), Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante del libro: stock = Σ ENTRY − Σ EXIT (partiendo de cero)
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerTotals_CoincideConStock(t *testing.T) {
	uc, state := newFixture()
	state.products[productID].StockOnHand = decimal.Zero

	require.NoError(t, uc.RegisterEntry(context.Background(), "suc_norte", inventory.EntryInput{
		ProductID: productID, UserID: userID, Quantity: dec("20"), Reason: "Stock inicial",
	}))
	require.NoError(t, uc.RegisterSaleExit(context.Background(), "suc_norte", inventory.SaleExitInput{
		ProductID: productID, UserID: userID, Quantity: dec("6"), InvoiceNumber: "FAC-000001",
	}))
	require.NoError(t, uc.RegisterAdjustment(context.Background(), "suc_norte", inventory.AdjustmentInput{
		ProductID: productID, UserID: userID,
		Kind: entity.AdjustmentSET, Quantity: dec("12"), Reason: "conteo",
	}))

	totals, err := uc.LedgerTotals(context.Background(), "suc_norte", productID)
	require.NoError(t, err)

	net := totals.Entries.Sub(totals.Exits)
	assert.True(t, net.Equal(state.products[productID].StockOnHand),
		"entradas (%s) - salidas (%s) debe coincidir con el stock (%s)",
		totals.Entries, totals.Exits, state.products[productID].StockOnHand)
}
