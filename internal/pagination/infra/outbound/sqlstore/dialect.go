package sqlstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/davicafu/hexapager/internal/pagination/domain"
)

// Dialect traduce las primitivas del árbol de expresiones a un motor SQL concreto.
// Las reescrituras de fechas y números se evalúan en el servidor, dentro del WHERE.
type Dialect interface {
	Name() string
	// Placeholder devuelve el marcador del argumento n (base 1) con valor v.
	Placeholder(n int, v any) string
	// Bind ajusta un valor ya canónico al formato que guarda el motor.
	Bind(v any) any
	Quote(ident string) string

	DatePart(part domain.DatePart, arg string) string
	ToDecimal(arg string) string
	// StringConvert redondea a entero (mitades lejos de cero) y alinea a la derecha.
	StringConvert(arg string, length int) string
	Trim(arg string) string
	Concat(parts []string) string
	Right(arg string, length int) string
	// Contains es una búsqueda de subcadena sin distinguir mayúsculas.
	Contains(haystack, needle string) string
	// LimitOffset devuelve la cláusula de paginación; take < 0 significa sin límite.
	LimitOffset(take, skip int) string
}

var (
	SQLite     Dialect = sqliteDialect{}
	Postgres   Dialect = postgresDialect{}
	ClickHouse Dialect = clickhouseDialect{}
)

// DialectByName resuelve un dialecto a partir del nombre del store en la configuración.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "clickhouse":
		return ClickHouse, nil
	}
	return nil, fmt.Errorf("unknown sql dialect %q", name)
}

// ---------------- SQLite (modernc.org/sqlite) ----------------

// sqliteTimeLayout es el texto que strftime sabe leer. Es el mismo que escribe
// modernc con _time_format=sqlite, así que no depende del DSN.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

type sqliteDialect struct{}

func (sqliteDialect) Name() string                 { return "sqlite" }
func (sqliteDialect) Placeholder(int, any) string  { return "?" }
func (sqliteDialect) Quote(ident string) string    { return `"` + ident + `"` }
func (sqliteDialect) ToDecimal(arg string) string  { return "CAST(" + arg + " AS REAL)" }
func (sqliteDialect) Trim(arg string) string       { return "trim(" + arg + ")" }
func (sqliteDialect) Concat(parts []string) string { return "(" + strings.Join(parts, " || ") + ")" }

func (sqliteDialect) Bind(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return v
}

func (sqliteDialect) DatePart(part domain.DatePart, arg string) string {
	f := map[domain.DatePart]string{domain.PartDay: "%d", domain.PartMonth: "%m", domain.PartYear: "%Y"}[part]
	return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", f, arg)
}

func (sqliteDialect) StringConvert(arg string, length int) string {
	return fmt.Sprintf("printf('%%%d.0f', %s)", length, arg)
}

func (sqliteDialect) Right(arg string, length int) string {
	return fmt.Sprintf("substr(%s, -%d)", arg, length)
}

func (sqliteDialect) Contains(haystack, needle string) string {
	return fmt.Sprintf("instr(lower(%s), lower(%s)) > 0", haystack, needle)
}

func (sqliteDialect) LimitOffset(take, skip int) string {
	switch {
	case take < 0 && skip <= 0:
		return ""
	case take < 0:
		return fmt.Sprintf("LIMIT -1 OFFSET %d", skip)
	case skip <= 0:
		return fmt.Sprintf("LIMIT %d", take)
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", take, skip)
}

// ---------------- PostgreSQL (jackc/pgx stdlib) ----------------

type postgresDialect struct{}

func (postgresDialect) Name() string                 { return "postgres" }
func (postgresDialect) Quote(ident string) string    { return `"` + ident + `"` }
func (postgresDialect) ToDecimal(arg string) string  { return "CAST(" + arg + " AS NUMERIC)" }
func (postgresDialect) Trim(arg string) string       { return "TRIM(" + arg + ")" }
func (postgresDialect) Concat(parts []string) string { return "(" + strings.Join(parts, " || ") + ")" }
func (postgresDialect) Bind(v any) any               { return v }

// Los textos se tipan explícitamente: Postgres no infiere el tipo de un parámetro dentro de ||.
func (postgresDialect) Placeholder(n int, v any) string {
	if _, ok := v.(string); ok {
		return fmt.Sprintf("CAST($%d AS TEXT)", n)
	}
	return fmt.Sprintf("$%d", n)
}

// Las partes se extraen en UTC, no en la zona de la sesión (columnas TIMESTAMPTZ).
func (postgresDialect) DatePart(part domain.DatePart, arg string) string {
	return fmt.Sprintf("EXTRACT(%s FROM %s AT TIME ZONE 'UTC')", strings.ToUpper(string(part)), arg)
}

func (postgresDialect) StringConvert(arg string, length int) string {
	return fmt.Sprintf("LPAD(CAST(ROUND(%s) AS TEXT), %d)", arg, length)
}

func (postgresDialect) Right(arg string, length int) string {
	return fmt.Sprintf("RIGHT(%s, %d)", arg, length)
}

func (postgresDialect) Contains(haystack, needle string) string {
	return fmt.Sprintf("strpos(lower(%s), lower(%s)) > 0", haystack, needle)
}

func (postgresDialect) LimitOffset(take, skip int) string {
	var parts []string
	if take >= 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %d", take))
	}
	if skip > 0 {
		parts = append(parts, fmt.Sprintf("OFFSET %d", skip))
	}
	return strings.Join(parts, " ")
}

// ---------------- ClickHouse (clickhouse-go/v2) ----------------

type clickhouseDialect struct{}

// maxRows sustituye al LIMIT ausente cuando hay OFFSET.
const maxRows = 9223372036854775807

func (clickhouseDialect) Name() string                { return "clickhouse" }
func (clickhouseDialect) Placeholder(int, any) string { return "?" }
func (clickhouseDialect) Quote(ident string) string   { return "`" + ident + "`" }
func (clickhouseDialect) ToDecimal(arg string) string { return "toFloat64(" + arg + ")" }
func (clickhouseDialect) Trim(arg string) string      { return "trimBoth(" + arg + ")" }
func (clickhouseDialect) Bind(v any) any              { return v }

func (clickhouseDialect) Concat(parts []string) string {
	return "concat(" + strings.Join(parts, ", ") + ")"
}

func (clickhouseDialect) DatePart(part domain.DatePart, arg string) string {
	f := map[domain.DatePart]string{domain.PartDay: "toDayOfMonth", domain.PartMonth: "toMonth", domain.PartYear: "toYear"}[part]
	return f + "(" + arg + ")"
}

// round sobre Float64 redondea mitades al par; sobre Decimal, lejos de cero.
func (clickhouseDialect) StringConvert(arg string, length int) string {
	return fmt.Sprintf("leftPad(toString(toDecimal128(round(toDecimal128(%s, 4)), 0)), %d)", arg, length)
}

func (clickhouseDialect) Right(arg string, length int) string {
	return fmt.Sprintf("right(%s, %d)", arg, length)
}

func (clickhouseDialect) Contains(haystack, needle string) string {
	return fmt.Sprintf("positionCaseInsensitiveUTF8(%s, %s) > 0", haystack, needle)
}

func (clickhouseDialect) LimitOffset(take, skip int) string {
	switch {
	case take < 0 && skip <= 0:
		return ""
	case take < 0:
		return fmt.Sprintf("LIMIT %d OFFSET %d", int64(maxRows), skip)
	case skip <= 0:
		return fmt.Sprintf("LIMIT %d", take)
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", take, skip)
}
