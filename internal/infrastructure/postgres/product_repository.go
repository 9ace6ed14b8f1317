package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, category_id, brand_id, name, description, purchase_price,
	sale_price, stock_on_hand, min_stock, vat_inclusive, active, location, image_url,
	last_purchase, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
// La tabla products se resuelve por search_path: cada sucursal tiene la suya.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto en el schema activo.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Code, p.CategoryID, p.BrandID, p.Name, p.Description, p.PurchasePrice,
		p.SalePrice, p.StockOnHand, p.MinStock, p.VATInclusive, p.Active, p.Location, p.ImageURL,
		p.LastPurchase, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update actualiza metadatos del producto. El stock NO se toca aquí: solo vía
// SetStock con la fila bloqueada, junto al asiento correspondiente.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, brand_id = $5,
		    purchase_price = $6, sale_price = $7, min_stock = $8, vat_inclusive = $9,
		    active = $10, location = $11, image_url = $12, last_purchase = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.Description, p.CategoryID, p.BrandID,
		p.PurchasePrice, p.SalePrice, p.MinStock, p.VATInclusive,
		p.Active, p.Location, p.ImageURL, p.LastPurchase, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.CategoryID, &p.BrandID, &p.Name, &p.Description, &p.PurchasePrice,
		&p.SalePrice, &p.StockOnHand, &p.MinStock, &p.VATInclusive, &p.Active, &p.Location, &p.ImageURL,
		&p.LastPurchase, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return r.scanOne(row, "get product")
}

// GetByCode obtiene un producto por código único.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE code = $1`, code)
	return r.scanOne(row, "get product by code")
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT ... FOR UPDATE)
// para serializar mutaciones de stock dentro de la transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	return r.scanOne(row, "get product for update")
}

// GetByCodeForUpdate igual que GetForUpdate pero por código.
func (r *ProductRepo) GetByCodeForUpdate(code string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE code = $1 FOR UPDATE`, code)
	return r.scanOne(row, "get product by code for update")
}

// SetStock fija stock_on_hand. Solo debe llamarse con la fila bloqueada.
func (r *ProductRepo) SetStock(id string, qty decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock_on_hand = $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

// List lista productos del schema activo con paginación.
func (r *ProductRepo) List(onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListLowStock productos activos con stock en o bajo el mínimo.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE active AND stock_on_hand <= min_stock ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// Deactivate marca el producto como inactivo; el historial del libro queda.
func (r *ProductRepo) Deactivate(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

func (r *ProductRepo) collect(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Code, &p.CategoryID, &p.BrandID, &p.Name, &p.Description, &p.PurchasePrice,
			&p.SalePrice, &p.StockOnHand, &p.MinStock, &p.VATInclusive, &p.Active, &p.Location, &p.ImageURL,
			&p.LastPurchase, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
