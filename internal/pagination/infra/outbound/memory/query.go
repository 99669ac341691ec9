package memory

import (
	"context"
	"reflect"
	"sort"

	"github.com/davicafu/hexapager/internal/pagination/domain"
)

// Query implementa domain.Query sobre un slice en memoria.
// Evalúa el mismo árbol de expresiones que traducen los stores SQL y Mongo.
type Query[T any] struct {
	items []T
	preds []domain.Expr
	order []domain.OrderKey
	skip  int
	take  int
}

// Verificación estática
var _ domain.Query[struct{}] = (*Query[struct{}])(nil)

// NewQuery crea una consulta sobre items. El slice no se modifica.
func NewQuery[T any](items []T) *Query[T] {
	return &Query[T]{items: items, take: -1}
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

func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	rows, err := q.run(ctx, false)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	return q.run(ctx, true)
}

func (q *Query[T]) run(ctx context.Context, ordered bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]T, 0, len(q.items))
	for _, item := range q.items {
		ok, err := q.matches(reflect.ValueOf(item))
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, item)
		}
	}

	if ordered && len(q.order) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			return q.less(reflect.ValueOf(rows[i]), reflect.ValueOf(rows[j]))
		})
	}

	if q.skip >= len(rows) {
		return []T{}, nil
	}
	rows = rows[q.skip:]
	if q.take >= 0 && q.take < len(rows) {
		rows = rows[:q.take]
	}
	return rows, nil
}

func (q *Query[T]) matches(entity reflect.Value) (bool, error) {
	for _, p := range q.preds {
		v, err := eval(p, entity)
		if err != nil {
			return false, err
		}
		if b, _ := v.(bool); !b {
			return false, nil
		}
	}
	return true, nil
}

// less compara por cada clave en orden. Los NULL van primero en orden ascendente.
func (q *Query[T]) less(a, b reflect.Value) bool {
	for _, key := range q.order {
		va, _ := eval(domain.FieldRef{Field: key.Field}, a)
		vb, _ := eval(domain.FieldRef{Field: key.Field}, b)

		var c int
		switch {
		case va == nil && vb == nil:
			c = 0
		case va == nil:
			c = -1
		case vb == nil:
			c = 1
		default:
			c, _ = compare(va, vb)
		}
		if c == 0 {
			continue
		}
		if key.Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}
