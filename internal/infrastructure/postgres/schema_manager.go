package postgres

import (
	"context"
	"fmt"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/codes"
)

// SharedSchema es el namespace compartido: sucursales, transferencias,
// usuarios, eventos y parámetros globales viven aquí y son visibles desde
// cualquier request.
const SharedSchema = "public"

// sharedDDL tablas del schema compartido.
const sharedDDL = `
CREATE TABLE IF NOT EXISTS branches (
	id              uuid PRIMARY KEY,
	code            text UNIQUE NOT NULL,
	schema_name     text UNIQUE NOT NULL,
	name            text NOT NULL,
	short_name      text NOT NULL DEFAULT '',
	address         text NOT NULL DEFAULT '',
	city            text NOT NULL DEFAULT '',
	phone           text NOT NULL DEFAULT '',
	document_prefix text NOT NULL DEFAULT '',
	is_primary      boolean NOT NULL DEFAULT false,
	is_active       boolean NOT NULL DEFAULT true,
	opened_at       timestamptz,
	closed_at       timestamptz,
	created_at      timestamptz NOT NULL,
	updated_at      timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY,
	email         text UNIQUE NOT NULL,
	password_hash text NOT NULL,
	display_name  text NOT NULL,
	role          text NOT NULL,
	branch_id     uuid REFERENCES branches(id),
	see_all       boolean NOT NULL DEFAULT false,
	active        boolean NOT NULL DEFAULT true,
	created_at    timestamptz NOT NULL,
	updated_at    timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS transfers (
	id               uuid PRIMARY KEY,
	guide_number     text UNIQUE NOT NULL,
	source_id        uuid NOT NULL REFERENCES branches(id),
	destination_id   uuid NOT NULL REFERENCES branches(id),
	sender_id        uuid NOT NULL,
	receiver_id      uuid,
	state            text NOT NULL CHECK (state IN ('PENDING','IN_TRANSIT','RECEIVED','CANCELLED')),
	sent_at          timestamptz NOT NULL,
	received_at      timestamptz,
	send_notes       text NOT NULL DEFAULT '',
	receive_notes    text NOT NULL DEFAULT '',
	CHECK (source_id <> destination_id)
);
CREATE TABLE IF NOT EXISTS transfer_details (
	id           uuid PRIMARY KEY,
	transfer_id  uuid NOT NULL REFERENCES transfers(id),
	product_code text NOT NULL,
	product_name text NOT NULL,
	sent_qty     numeric(12,2) NOT NULL,
	received_qty numeric(12,2),
	unit_price   numeric(12,2) NOT NULL DEFAULT 0,
	observations text NOT NULL DEFAULT '',
	UNIQUE (transfer_id, product_code)
);
CREATE TABLE IF NOT EXISTS domain_events (
	id          uuid PRIMARY KEY,
	name        text NOT NULL,
	branch_id   uuid,
	payload     jsonb,
	occurred_at timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS system_parameters (
	id          uuid PRIMARY KEY,
	name        text UNIQUE NOT NULL,
	value       text NOT NULL,
	description text NOT NULL DEFAULT '',
	updated_at  timestamptz NOT NULL
);
`

// branchDDL tablas privadas de cada sucursal. Se ejecuta con el search_path
// fijado exclusivamente al schema nuevo, de modo que los nombres sin calificar
// se creen ahí y no en public.
const branchDDL = `
CREATE TABLE IF NOT EXISTS brands (
	id          uuid PRIMARY KEY,
	name        text UNIQUE NOT NULL,
	description text NOT NULL DEFAULT '',
	active      boolean NOT NULL DEFAULT true
);
CREATE TABLE IF NOT EXISTS product_categories (
	id             uuid PRIMARY KEY,
	code           text UNIQUE NOT NULL,
	name           text NOT NULL,
	description    text NOT NULL DEFAULT '',
	markup_percent numeric(10,2) NOT NULL DEFAULT 0,
	parent_id      uuid REFERENCES product_categories(id),
	active         boolean NOT NULL DEFAULT true
);
CREATE TABLE IF NOT EXISTS products (
	id             uuid PRIMARY KEY,
	code           text UNIQUE NOT NULL,
	category_id    uuid NOT NULL REFERENCES product_categories(id),
	brand_id       uuid NOT NULL REFERENCES brands(id),
	name           text NOT NULL,
	description    text NOT NULL DEFAULT '',
	purchase_price numeric(12,2) NOT NULL,
	sale_price     numeric(12,2) NOT NULL,
	stock_on_hand  numeric(12,2) NOT NULL DEFAULT 0,
	min_stock      numeric(12,2) NOT NULL DEFAULT 0,
	vat_inclusive  boolean NOT NULL DEFAULT true,
	active         boolean NOT NULL DEFAULT true,
	location       text NOT NULL DEFAULT '',
	image_url      text NOT NULL DEFAULT '',
	last_purchase  timestamptz,
	created_at     timestamptz NOT NULL,
	updated_at     timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS inventory_movements (
	id         uuid PRIMARY KEY,
	product_id uuid NOT NULL REFERENCES products(id),
	user_id    uuid NOT NULL,
	kind       text NOT NULL CHECK (kind IN ('ENTRY','EXIT')),
	quantity   numeric(12,2) NOT NULL CHECK (quantity > 0),
	unit_price numeric(12,2),
	reason     text NOT NULL,
	reference  text NOT NULL DEFAULT '',
	sale_id    uuid,
	created_at timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS inventory_adjustments (
	id         uuid PRIMARY KEY,
	product_id uuid NOT NULL REFERENCES products(id),
	user_id    uuid NOT NULL,
	kind       text NOT NULL CHECK (kind IN ('ENTRY','EXIT','SET')),
	quantity   numeric(12,2) NOT NULL,
	reason     text NOT NULL,
	created_at timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS sales (
	id             uuid PRIMARY KEY,
	invoice_number text UNIQUE NOT NULL,
	user_id        uuid NOT NULL,
	customer_name  text NOT NULL DEFAULT '',
	state          text NOT NULL CHECK (state IN ('PENDING','COMPLETED','CANCELLED')),
	subtotal       numeric(12,2) NOT NULL DEFAULT 0,
	vat            numeric(12,2) NOT NULL DEFAULT 0,
	discount       numeric(12,2) NOT NULL DEFAULT 0,
	total          numeric(12,2) NOT NULL DEFAULT 0,
	created_at     timestamptz NOT NULL,
	updated_at     timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS sale_lines (
	id          uuid PRIMARY KEY,
	sale_id     uuid NOT NULL REFERENCES sales(id),
	is_service  boolean NOT NULL,
	product_id  uuid REFERENCES products(id),
	service_ref text,
	detail      text NOT NULL DEFAULT '',
	quantity    numeric(12,2) NOT NULL,
	unit_price  numeric(12,2) NOT NULL,
	vat_percent numeric(5,2) NOT NULL,
	vat         numeric(12,2) NOT NULL,
	subtotal    numeric(12,2) NOT NULL,
	total       numeric(12,2) NOT NULL,
	CHECK ((is_service AND service_ref IS NOT NULL AND product_id IS NULL)
	    OR (NOT is_service AND product_id IS NOT NULL AND service_ref IS NULL))
);
`

// SchemaManager materializa y consulta los schemas por sucursal. Recibe pool o
// tx (Querier): crear la sucursal y su schema comparten transacción.
type SchemaManager struct {
	q Querier
}

// NewSchemaManager construye el administrador de schemas.
func NewSchemaManager(q Querier) *SchemaManager {
	return &SchemaManager{q: q}
}

// EnsureSharedTables crea las tablas del schema compartido si no existen.
func (m *SchemaManager) EnsureSharedTables(ctx context.Context) error {
	if _, err := m.q.Exec(ctx, sharedDDL); err != nil {
		return fmt.Errorf("crear tablas compartidas: %w", err)
	}
	return nil
}

// CreateSchema materializa el schema de una sucursal con sus tablas.
// Idempotente: repetir la llamada sobre un schema ya materializado no falla.
// Rechaza nombres reservados de PostgreSQL con domain.ErrReservedName.
func (m *SchemaManager) CreateSchema(ctx context.Context, name string) error {
	if codes.IsReservedSchema(name) {
		return domain.ErrReservedName
	}
	if err := codes.ValidateSchemaName(name); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if _, err := m.q.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %q`, name)); err != nil {
		return fmt.Errorf("crear schema %s: %w", name, err)
	}
	// El DDL corre con el search_path fijado SOLO al schema nuevo; SET LOCAL
	// queda sin efecto fuera de la transacción en curso.
	if _, err := m.q.Exec(ctx, fmt.Sprintf(`SET LOCAL search_path TO %q`, name)); err != nil {
		return fmt.Errorf("fijar search_path a %s: %w", name, err)
	}
	if _, err := m.q.Exec(ctx, branchDDL); err != nil {
		return fmt.Errorf("crear tablas de %s: %w", name, err)
	}
	if _, err := m.q.Exec(ctx, `SET LOCAL search_path TO public`); err != nil {
		return fmt.Errorf("restaurar search_path: %w", err)
	}
	return nil
}

// SchemaExists consulta el catálogo de PostgreSQL.
func (m *SchemaManager) SchemaExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := m.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("consultar schema %s: %w", name, err)
	}
	return exists, nil
}

// setSearchPath fija el search_path de la transacción al schema de la
// sucursal con public como fallback: las tablas compartidas resuelven en
// public y las de negocio en el schema privado. SET LOCAL muere con la
// transacción, en commit o rollback, así que ningún binding sobrevive a la
// request.
func setSearchPath(ctx context.Context, q Querier, schema string) error {
	if schema == SharedSchema {
		_, err := q.Exec(ctx, `SET LOCAL search_path TO public`)
		return err
	}
	if err := codes.ValidateSchemaName(schema); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if _, err := q.Exec(ctx, fmt.Sprintf(`SET LOCAL search_path TO %q, public`, schema)); err != nil {
		return fmt.Errorf("fijar search_path a %s: %w", schema, err)
	}
	return nil
}
