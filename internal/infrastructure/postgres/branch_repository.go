package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

const branchColumns = `id, code, schema_name, name, short_name, address, city, phone,
	document_prefix, is_primary, is_active, opened_at, closed_at, created_at, updated_at`

// BranchRepo implementación del puerto BranchRepository sobre PostgreSQL.
// Las sucursales viven en public; el SQL califica la tabla explícitamente para
// que ningún search_path de sucursal las capture.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// Create persiste una nueva sucursal.
func (r *BranchRepo) Create(b *entity.Branch) error {
	query := `
		INSERT INTO public.branches (` + branchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.Code, b.SchemaName, b.Name, b.ShortName, b.Address, b.City, b.Phone,
		b.DocumentPrefix, b.IsPrimary, b.IsActive, b.OpenedAt, b.ClosedAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// Update actualiza una sucursal existente.
func (r *BranchRepo) Update(b *entity.Branch) error {
	query := `
		UPDATE public.branches
		SET name = $2, short_name = $3, address = $4, city = $5, phone = $6,
		    document_prefix = $7, is_primary = $8, is_active = $9,
		    opened_at = $10, closed_at = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.Name, b.ShortName, b.Address, b.City, b.Phone,
		b.DocumentPrefix, b.IsPrimary, b.IsActive, b.OpenedAt, b.ClosedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

func (r *BranchRepo) scanOne(row pgx.Row, op string) (*entity.Branch, error) {
	var b entity.Branch
	err := row.Scan(
		&b.ID, &b.Code, &b.SchemaName, &b.Name, &b.ShortName, &b.Address, &b.City, &b.Phone,
		&b.DocumentPrefix, &b.IsPrimary, &b.IsActive, &b.OpenedAt, &b.ClosedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

// GetByID obtiene una sucursal por ID.
func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+branchColumns+` FROM public.branches WHERE id = $1`, id)
	return r.scanOne(row, "get branch")
}

// GetByCode obtiene una sucursal por código.
func (r *BranchRepo) GetByCode(code string) (*entity.Branch, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+branchColumns+` FROM public.branches WHERE code = $1`, code)
	return r.scanOne(row, "get branch by code")
}

// GetBySchema obtiene la sucursal dueña de un schema.
func (r *BranchRepo) GetBySchema(schemaName string) (*entity.Branch, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+branchColumns+` FROM public.branches WHERE schema_name = $1`, schemaName)
	return r.scanOne(row, "get branch by schema")
}

// GetPrimary obtiene la sucursal principal (nil si no existe ninguna).
func (r *BranchRepo) GetPrimary() (*entity.Branch, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+branchColumns+` FROM public.branches WHERE is_primary LIMIT 1`)
	return r.scanOne(row, "get primary branch")
}

// DemotePrimaryExcept baja la bandera es_principal de toda sucursal distinta
// de id. Corre dentro de la tx de guardado para que el intercambio sea único.
func (r *BranchRepo) DemotePrimaryExcept(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE public.branches SET is_primary = false, updated_at = now() WHERE is_primary AND id <> $1`, id)
	if err != nil {
		return fmt.Errorf("demote primary: %w", err)
	}
	return nil
}

// List lista sucursales, principal primero.
func (r *BranchRepo) List(onlyActive bool) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM public.branches`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY is_primary DESC, name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(
			&b.ID, &b.Code, &b.SchemaName, &b.Name, &b.ShortName, &b.Address, &b.City, &b.Phone,
			&b.DocumentPrefix, &b.IsPrimary, &b.IsActive, &b.OpenedAt, &b.ClosedAt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Archive desactiva la sucursal. Nunca elimina el registro ni su schema.
func (r *BranchRepo) Archive(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE public.branches SET is_active = false, closed_at = now(), updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("archive branch: %w", err)
	}
	return nil
}
