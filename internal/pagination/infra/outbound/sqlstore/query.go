package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/davicafu/hexapager/internal/shared/infra/utils"
)

// Querier es el subconjunto de *sql.DB (o *sql.Tx) que usa Query.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Query implementa domain.Query sobre una tabla SQL. Las columnas se derivan del
// esquema de T (tag db o nombre en snake_case; los anidados se unen con "_").
type Query[T any] struct {
	db      Querier
	table   string
	dialect Dialect
	schema  *domain.Schema

	preds []domain.Expr
	order []domain.OrderKey
	skip  int
	take  int
}

// Verificación estática
var _ domain.Query[struct{}] = (*Query[struct{}])(nil)

// NewQuery crea una consulta sobre table con el dialecto indicado.
func NewQuery[T any](db Querier, table string, dialect Dialect) *Query[T] {
	return &Query[T]{
		db:      db,
		table:   table,
		dialect: dialect,
		schema:  domain.SchemaFor[T](),
		take:    -1,
	}
}

func (q *Query[T]) clone() *Query[T] {
	c := *q
	c.preds = append([]domain.Expr(nil), q.preds...)
	c.order = append([]domain.OrderKey(nil), q.order...)
	return &c
}

func (q *Query[T]) Where(pred domain.Expr) domain.Query[T] {
	c := q.clone()
	c.preds = append(c.preds, pred)
	return c
}

func (q *Query[T]) OrderBy(keys ...domain.OrderKey) domain.Query[T] {
	c := q.clone()
	c.order = append([]domain.OrderKey(nil), keys...)
	return c
}

func (q *Query[T]) Skip(n int) domain.Query[T] {
	c := q.clone()
	if n > 0 {
		c.skip += n
		if c.take >= 0 {
			c.take = max(c.take-n, 0)
		}
	}
	return c
}

func (q *Query[T]) Take(n int) domain.Query[T] {
	c := q.clone()
	if n < 0 {
		n = 0
	}
	if c.take < 0 || n < c.take {
		c.take = n
	}
	return c
}

// ------------------ Generación de SQL ------------------

// CountSQL devuelve la sentencia de conteo. El ORDER BY no afecta al conteo y se omite.
func (q *Query[T]) CountSQL() (string, []any, error) {
	c := &compiler{dialect: q.dialect}
	where, err := c.where(q.preds)
	if err != nil {
		return "", nil, err
	}
	table := q.dialect.Quote(q.table)

	if q.skip == 0 && q.take < 0 {
		return "SELECT COUNT(*) FROM " + table + where, c.args, nil
	}
	inner := "SELECT 1 FROM " + table + where
	if lo := q.dialect.LimitOffset(q.take, q.skip); lo != "" {
		inner += " " + lo
	}
	return "SELECT COUNT(*) FROM (" + inner + ") AS page", c.args, nil
}

// SelectSQL devuelve la sentencia que lee la página.
func (q *Query[T]) SelectSQL() (string, []any, error) {
	c := &compiler{dialect: q.dialect}
	where, err := c.where(q.preds)
	if err != nil {
		return "", nil, err
	}

	leaves := q.schema.Leaves()
	cols := make([]string, len(leaves))
	for i, f := range leaves {
		cols[i] = q.dialect.Quote(f.Column)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.dialect.Quote(q.table))
	b.WriteString(where)

	if len(q.order) > 0 {
		keys := make([]string, len(q.order))
		for i, k := range q.order {
			keys[i] = q.dialect.Quote(k.Field.Column) + " " + utils.Ternary(k.Descending, "DESC", "ASC")
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(keys, ", "))
	}
	if lo := q.dialect.LimitOffset(q.take, q.skip); lo != "" {
		b.WriteString(" ")
		b.WriteString(lo)
	}
	return b.String(), c.args, nil
}

// ------------------ Lectura ------------------

func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	query, args, err := q.CountSQL()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db count error: %w", err)
	}
	return n, nil
}

func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	query, args, err := q.SelectSQL()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaves := q.schema.Leaves()
	items := []T{}
	for rows.Next() {
		var item T
		target := reflect.ValueOf(&item).Elem()
		if target.Kind() == reflect.Pointer {
			target.Set(reflect.New(target.Type().Elem()))
			target = target.Elem()
		}

		dest := make([]any, len(leaves))
		for i, f := range leaves {
			dest[i] = f.Target(target).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("db scan error: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
