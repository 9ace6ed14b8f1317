// Package codes genera y valida los identificadores de negocio: números de
// guía de transferencia, códigos de producto, números de factura, códigos de
// sucursal y nombres de schema.
package codes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Schemas que PostgreSQL reserva y que nunca pueden asignarse a una sucursal.
var reservedSchemas = map[string]struct{}{
	"public":    {},
	"postgres":  {},
	"template0": {},
	"template1": {},
}

var (
	branchCodeRe       = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	schemaNameRe       = regexp.MustCompile(`^[a-z0-9_]+$`)
	invalidSchemaChars = regexp.MustCompile(`[^a-z0-9_]`)
)

// NewGuideNumber genera un número de guía TRF-YYYYMMDD-<8 hex mayúsculas>.
func NewGuideNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("TRF-%s-%s", now.Format("20060102"), suffix)
}

// NewProductCode genera <3 primeros caracteres del código de categoría>-<8 hex
// mayúsculas>. Con categoría vacía usa el prefijo PRO.
func NewProductCode(categoryCode string) string {
	prefix := "PRO"
	if categoryCode != "" {
		prefix = categoryCode
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
	}
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8]))
}

// FormatInvoiceNumber formatea FAC-<secuencia con ceros a la izquierda>.
func FormatInvoiceNumber(seq int) string {
	return fmt.Sprintf("FAC-%06d", seq)
}

// NextInvoiceNumber parsea el último número emitido y devuelve el siguiente.
// Con histórico vacío o ilegible arranca en FAC-000001.
func NextInvoiceNumber(last string) string {
	seq := 0
	if parts := strings.Split(last, "-"); len(parts) == 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			seq = n
		}
	}
	return FormatInvoiceNumber(seq + 1)
}

// ValidBranchCode valida el código de sucursal: mayúsculas, dígitos, - y _.
func ValidBranchCode(code string) bool {
	return branchCodeRe.MatchString(code)
}

// ValidateSchemaName valida un nombre de schema: minúsculas [a-z0-9_] y fuera
// de la lista de reservados de PostgreSQL.
func ValidateSchemaName(name string) error {
	if !schemaNameRe.MatchString(name) {
		return fmt.Errorf("schema %q: solo se permite [a-z0-9_]", name)
	}
	if _, ok := reservedSchemas[name]; ok {
		return fmt.Errorf("schema %q: nombre reservado", name)
	}
	return nil
}

// IsReservedSchema indica si el nombre pertenece a los schemas reservados.
func IsReservedSchema(name string) bool {
	_, ok := reservedSchemas[strings.ToLower(name)]
	return ok
}

// SchemaNameFromBranchCode deriva el nombre de schema a partir del código de
// sucursal: minúsculas y todo carácter fuera de [a-z0-9_] reemplazado por _.
func SchemaNameFromBranchCode(code string) string {
	return invalidSchemaChars.ReplaceAllString(strings.ToLower(code), "_")
}
