package codes_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpmotos/vpmotos-api/internal/domain/codes"
)

// ──────────────────────────────────────────────────────────────────────────────
// Números de guía
// ──────────────────────────────────────────────────────────────────────────────

func TestNewGuideNumber_Formato(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	guide := codes.NewGuideNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^TRF-20250314-[0-9A-F]{8}$`), guide,
		"la guía debe ser TRF-YYYYMMDD-<8 hex mayúsculas>")
}

func TestNewGuideNumber_NoRepite(t *testing.T) {
	now := time.Now()
	g1 := codes.NewGuideNumber(now)
	g2 := codes.NewGuideNumber(now)
	assert.NotEqual(t, g1, g2, "dos guías del mismo instante no deben colisionar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Códigos de producto
// ──────────────────────────────────────────────────────────────────────────────

func TestNewProductCode_PrefijoDeCategoria(t *testing.T) {
	code := codes.NewProductCode("LUBRICANTES")
	assert.Regexp(t, regexp.MustCompile(`^LUB-[0-9A-F]{8}$`), code,
		"el prefijo debe ser los 3 primeros caracteres del código de categoría")
}

func TestNewProductCode_CategoriaCorta(t *testing.T) {
	code := codes.NewProductCode("XY")
	assert.Regexp(t, regexp.MustCompile(`^XY-[0-9A-F]{8}$`), code)
}

func TestNewProductCode_SinCategoria(t *testing.T) {
	code := codes.NewProductCode("")
	assert.Regexp(t, regexp.MustCompile(`^PRO-[0-9A-F]{8}$`), code,
		"sin categoría el prefijo por defecto es PRO")
}

// ──────────────────────────────────────────────────────────────────────────────
// Números de factura
// ──────────────────────────────────────────────────────────────────────────────

func TestNextInvoiceNumber(t *testing.T) {
	cases := []struct {
		name string
		last string
		want string
	}{
		{"historico vacío", "", "FAC-000001"},
		{"secuencia normal", "FAC-000041", "FAC-000042"},
		{"historico ilegible", "garbage", "FAC-000001"},
		{"desborda el padding", "FAC-999999", "FAC-1000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, codes.NextInvoiceNumber(tc.last))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Códigos de sucursal y nombres de schema
// ──────────────────────────────────────────────────────────────────────────────

func TestValidBranchCode(t *testing.T) {
	assert.True(t, codes.ValidBranchCode("SUC-NORTE"))
	assert.True(t, codes.ValidBranchCode("MATRIZ_01"))
	assert.False(t, codes.ValidBranchCode("suc-norte"), "minúsculas no permitidas")
	assert.False(t, codes.ValidBranchCode("SUC NORTE"), "espacios no permitidos")
	assert.False(t, codes.ValidBranchCode(""), "vacío no permitido")
}

func TestValidateSchemaName(t *testing.T) {
	require.NoError(t, codes.ValidateSchemaName("suc_norte"))
	require.NoError(t, codes.ValidateSchemaName("matriz_01"))

	assert.Error(t, codes.ValidateSchemaName("Suc-Norte"), "mayúsculas y guiones no permitidos")
	assert.Error(t, codes.ValidateSchemaName("suc norte"))
	assert.Error(t, codes.ValidateSchemaName(""))
	assert.Error(t, codes.ValidateSchemaName(`x"; DROP SCHEMA public`),
		"caracteres de inyección deben rechazarse")
}

func TestValidateSchemaName_Reservados(t *testing.T) {
	for _, name := range []string{"public", "postgres", "template0", "template1"} {
		assert.Error(t, codes.ValidateSchemaName(name), "schema reservado %q", name)
		assert.True(t, codes.IsReservedSchema(name))
	}
	assert.True(t, codes.IsReservedSchema("PUBLIC"), "la comparación no distingue mayúsculas")
	assert.False(t, codes.IsReservedSchema("suc_norte"))
}

func TestSchemaNameFromBranchCode(t *testing.T) {
	assert.Equal(t, "suc_norte", codes.SchemaNameFromBranchCode("SUC-NORTE"))
	assert.Equal(t, "matriz_01", codes.SchemaNameFromBranchCode("MATRIZ_01"))
	assert.Equal(t, "suc_sur_2", codes.SchemaNameFromBranchCode("SUC SUR 2"))
}
