package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"

	"github.com/davicafu/hexapager/internal/pagination/domain"
)

// Execer es el subconjunto de *sql.DB (o *sql.Tx) que usa Insert.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Columns devuelve las columnas de T entrecomilladas, en el orden que lee Query.List.
func Columns[T any](dialect Dialect) []string {
	leaves := domain.SchemaFor[T]().Leaves()
	cols := make([]string, len(leaves))
	for i, f := range leaves {
		cols[i] = dialect.Quote(f.Column)
	}
	return cols
}

// Values devuelve los argumentos de entity en el orden de Columns, ya en el
// formato del dialecto. Las hojas bajo un puntero nil se escriben como NULL.
func Values[T any](dialect Dialect, entity *T) []any {
	leaves := domain.SchemaFor[T]().Leaves()
	v := reflect.ValueOf(entity).Elem()
	args := make([]any, len(leaves))
	for i, f := range leaves {
		if val, ok := f.Value(v); ok {
			args[i] = bindValue(dialect, val)
		}
	}
	return args
}

// InsertSQL genera el INSERT de entity con una columna por hoja del esquema de T.
func InsertSQL[T any](table string, dialect Dialect, entity *T) (string, []any) {
	args := Values(dialect, entity)
	marks := make([]string, len(args))
	for i, arg := range args {
		marks[i] = dialect.Placeholder(i+1, arg)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		dialect.Quote(table), strings.Join(Columns[T](dialect), ", "), strings.Join(marks, ", "))
	return query, args
}

// Insert escribe entity en table.
func Insert[T any](ctx context.Context, db Execer, table string, dialect Dialect, entity *T) error {
	query, args := InsertSQL(table, dialect, entity)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db insert error: %w", err)
	}
	return nil
}

// bindValue normaliza un valor antes de pasarlo al driver: los tipos con
// driver.Valuer (UUID, Char) viajan ya convertidos para que todos los drivers los acepten,
// y las fechas van en UTC.
func bindValue(dialect Dialect, v any) any {
	v = domain.Canonical(v)
	if valuer, ok := v.(driver.Valuer); ok {
		if dv, err := valuer.Value(); err == nil {
			v = dv
		}
	}
	return dialect.Bind(v)
}
