package sales_test

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpmotos/vpmotos-api/internal/application/sales"
	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
	"github.com/vpmotos/vpmotos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con rollback por snapshot.
// ──────────────────────────────────────────────────────────────────────────────

type posState struct {
	products  map[string]*entity.Product
	sales     map[string]*entity.Sale
	lines     []*entity.SaleLine
	movements []*entity.MovementEntry
}

func (s *posState) clone() *posState {
	c := &posState{
		products: map[string]*entity.Product{},
		sales:    map[string]*entity.Sale{},
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, sl := range s.sales {
		cs := *sl
		c.sales[id] = &cs
	}
	c.lines = append(c.lines, s.lines...)
	c.movements = append(c.movements, s.movements...)
	return c
}

type posSaleRepo struct{ s *posState }

func (r *posSaleRepo) Create(sale *entity.Sale) error { r.s.sales[sale.ID] = sale; return nil }
func (r *posSaleRepo) CreateLine(line *entity.SaleLine) error {
	r.s.lines = append(r.s.lines, line)
	return nil
}
func (r *posSaleRepo) GetByID(id string) (*entity.Sale, error) { return r.s.sales[id], nil }
func (r *posSaleRepo) ListLines(saleID string) ([]*entity.SaleLine, error) {
	var out []*entity.SaleLine
	for _, l := range r.s.lines {
		if l.SaleID == saleID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *posSaleRepo) LastInvoiceNumber() (string, error) {
	var invoices []string
	for _, s := range r.s.sales {
		invoices = append(invoices, s.InvoiceNumber)
	}
	if len(invoices) == 0 {
		return "", nil
	}
	sort.Strings(invoices)
	return invoices[len(invoices)-1], nil
}

type posProductRepo struct{ s *posState }

func (r *posProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *posProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *posProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *posProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}
func (r *posProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }
func (r *posProductRepo) GetByCodeForUpdate(code string) (*entity.Product, error) {
	return r.GetByCode(code)
}
func (r *posProductRepo) SetStock(id string, qty decimal.Decimal) error {
	if p, ok := r.s.products[id]; ok {
		p.StockOnHand = qty
	}
	return nil
}
func (r *posProductRepo) List(onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *posProductRepo) ListLowStock() ([]*entity.Product, error) { return nil, nil }
func (r *posProductRepo) Deactivate(id string) error               { return nil }

type posMovementRepo struct{ s *posState }

func (r *posMovementRepo) Append(e *entity.MovementEntry) error {
	r.s.movements = append(r.s.movements, e)
	return nil
}
func (r *posMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.MovementEntry, error) {
	return nil, nil
}
func (r *posMovementRepo) ListByReference(reference string) ([]*entity.MovementEntry, error) {
	return nil, nil
}
func (r *posMovementRepo) TotalsByProduct(productID string) (*repository.LedgerTotals, error) {
	return &repository.LedgerTotals{}, nil
}

type posTxRunner struct{ s *posState }

func (r *posTxRunner) RunSale(ctx context.Context, schema string, fn func(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) error) error {
	snapshot := r.s.clone()
	err := fn(&posSaleRepo{s: r.s}, &posProductRepo{s: r.s}, &posMovementRepo{s: r.s})
	if err != nil {
		*r.s = *snapshot
		return err
	}
	return nil
}

type posEventRepo struct{ events []*entity.DomainEvent }

func (r *posEventRepo) Append(e *entity.DomainEvent) error {
	r.events = append(r.events, e)
	return nil
}
func (r *posEventRepo) ListSince(name string, limit int) ([]*entity.DomainEvent, error) {
	return r.events, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: IVA 15%, un producto con stock 10 a 12.00
// ──────────────────────────────────────────────────────────────────────────────

const (
	posProductID = "p0000000-0000-0000-0000-000000000001"
	posUserID    = "u0000000-0000-0000-0000-000000000001"
	posBranchID  = "b0000000-0000-0000-0000-000000000001"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newFixture() (*sales.UseCase, *posState, *posEventRepo) {
	state := &posState{
		products: map[string]*entity.Product{
			posProductID: {
				ID: posProductID, Code: "LUB-00000001", Name: "Aceite 10W40",
				SalePrice: dec("12.00"), StockOnHand: dec("10"), Active: true,
			},
		},
		sales: map[string]*entity.Sale{},
	}
	events := &posEventRepo{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := sales.NewUseCase(&posTxRunner{s: state}, events, dec("15"), log)
	return uc, state, events
}

// ──────────────────────────────────────────────────────────────────────────────
// Commit
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_VentaDeProducto(t *testing.T) {
	uc, state, events := newFixture()

	sale, err := uc.Commit(context.Background(), "suc_norte", sales.CommitInput{
		UserID:       posUserID,
		BranchID:     posBranchID,
		CustomerName: "Juan Pérez",
		Lines: []sales.LineInput{
			{ProductID: posProductID, Quantity: dec("2")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "FAC-000001", sale.InvoiceNumber)
	assert.Equal(t, entity.SaleCOMPLETED, sale.State)
	assert.True(t, dec("24.00").Equal(sale.Subtotal), "2 x 12.00")
	assert.True(t, dec("3.60").Equal(sale.VAT), "IVA 15 sobre 24.00")
	assert.True(t, dec("27.60").Equal(sale.Total))

	assert.True(t, dec("8").Equal(state.products[posProductID].StockOnHand))
	require.Len(t, state.movements, 1)
	assert.Equal(t, "Venta #FAC-000001", state.movements[0].Reason)
	require.NotNil(t, state.movements[0].SaleID)
	assert.Equal(t, sale.ID, *state.movements[0].SaleID)

	assert.Len(t, events.events, 1, "debe publicarse sale.completed")
}

func TestCommit_NumeracionSecuencialPorSucursal(t *testing.T) {
	uc, _, _ := newFixture()

	for i, want := range []string{"FAC-000001", "FAC-000002", "FAC-000003"} {
		sale, err := uc.Commit(context.Background(), "suc_norte", sales.CommitInput{
			UserID: posUserID,
			Lines:  []sales.LineInput{{ProductID: posProductID, Quantity: dec("1")}},
		})
		require.NoError(t, err, "venta %d", i+1)
		assert.Equal(t, want, sale.InvoiceNumber)
	}
}

func TestCommit_ServicioSinIVAYSinStock(t *testing.T) {
	uc, state, _ := newFixture()

	sale, err := uc.Commit(context.Background(), "suc_norte", sales.CommitInput{
		UserID: posUserID,
		Lines: []sales.LineInput{
			{IsService: true, ServiceRef: "MANT-BASICO", Detail: "Cambio de aceite", Quantity: dec("1"), UnitPrice: dec("25.00")},
		},
	})
	require.NoError(t, err)

	assert.True(t, dec("25.00").Equal(sale.Subtotal))
	assert.True(t, sale.VAT.IsZero(), "los servicios no llevan IVA")
	assert.True(t, dec("10").Equal(state.products[posProductID].StockOnHand), "un servicio no toca stock")
	assert.Empty(t, state.movements)

	require.Len(t, state.lines, 1)
	require.NotNil(t, state.lines[0].ServiceRef)
	assert.Equal(t, "MANT-BASICO", *state.lines[0].ServiceRef)
	assert.Nil(t, state.lines[0].ProductID)
}

func TestCommit_MixtaConDescuento(t *testing.T) {
	uc, _, _ := newFixture()

	sale, err := uc.Commit(context.Background(), "suc_norte", sales.CommitInput{
		UserID:   posUserID,
		Discount: dec("5.00"),
		Lines: []sales.LineInput{
			{ProductID: posProductID, Quantity: dec("2")},
			{IsService: true, ServiceRef: "MANT-BASICO", Quantity: dec("1"), UnitPrice: dec("25.00")},
		},
	})
	require.NoError(t, err)

	// productos: 24.00 + 3.60 IVA; servicio: 25.00 sin IVA; descuento 5.00
	assert.True(t, dec("49.00").Equal(sale.Subtotal))
	assert.True(t, dec("3.60").Equal(sale.VAT))
	assert.True(t, dec("47.60").Equal(sale.Total), "49.00 + 3.60 - 5.00")
}

func TestCommit_StockInsuficienteRevierteTodo(t *testing.T) {
	uc, state, events := newFixture()

	_, err := uc.Commit(context.Background(), "suc_norte", sales.CommitInput{
		UserID: posUserID,
		Lines: []sales.LineInput{
			{ProductID: posProductID, Quantity: dec("11")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, dec("10").Equal(state.products[posProductID].StockOnHand))
	assert.Empty(t, state.sales, "no debe quedar cabecera")
	assert.Empty(t, state.lines)
	assert.Empty(t, state.movements)
	assert.Empty(t, events.events, "sin commit no hay evento")
}

func TestCommit_ValidacionDeLineas(t *testing.T) {
	uc, _, _ := newFixture()
	ctx := context.Background()

	_, err := uc.Commit(ctx, "suc_norte", sales.CommitInput{UserID: posUserID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.Commit(ctx, "suc_norte", sales.CommitInput{
		UserID: posUserID,
		Lines:  []sales.LineInput{{ProductID: posProductID, Quantity: dec("0")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.Commit(ctx, "suc_norte", sales.CommitInput{
		UserID: posUserID,
		Lines:  []sales.LineInput{{IsService: true, Quantity: dec("1"), UnitPrice: dec("10.00")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "servicio sin referencia")

	_, err = uc.Commit(ctx, "suc_norte", sales.CommitInput{
		UserID:   posUserID,
		Discount: dec("-1"),
		Lines:    []sales.LineInput{{ProductID: posProductID, Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento negativo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Get
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_VentaConLineas(t *testing.T) {
	uc, _, _ := newFixture()

	created, err := uc.Commit(context.Background(), "suc_norte", sales.CommitInput{
		UserID: posUserID,
		Lines:  []sales.LineInput{{ProductID: posProductID, Quantity: dec("1")}},
	})
	require.NoError(t, err)

	sale, lines, err := uc.Get(context.Background(), "suc_norte", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, sale.InvoiceNumber)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].ProductID)
	assert.Equal(t, posProductID, *lines[0].ProductID)
}

func TestGet_NoExiste(t *testing.T) {
	uc, _, _ := newFixture()
	_, _, err := uc.Get(context.Background(), "suc_norte", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
