package mongostore

import (
	"context"
	"fmt"

	"github.com/davicafu/hexapager/internal/pagination/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection es el subconjunto de *mongo.Collection que usa Query.
type Collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Query implementa domain.Query sobre una colección de MongoDB.
// Los documentos se decodifican en T con los tags bson (o el nombre en minúsculas).
type Query[T any] struct {
	coll  Collection
	preds []domain.Expr
	order []domain.OrderKey
	skip  int
	take  int
}

// Verificación estática
var _ domain.Query[struct{}] = (*Query[struct{}])(nil)

func NewQuery[T any](coll Collection) *Query[T] {
	return &Query[T]{coll: coll, take: -1}
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

// Filter devuelve el filtro que se envía a find y countDocuments.
func (q *Query[T]) Filter() (bson.M, error) {
	return filter(q.preds)
}

// Sort devuelve la especificación de orden en el orden de las claves.
func (q *Query[T]) Sort() bson.D {
	sort := bson.D{}
	for _, k := range q.order {
		dir := 1
		if k.Descending {
			dir = -1
		}
		sort = append(sort, bson.E{Key: k.Field.DocPath, Value: dir})
	}
	return sort
}

func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	// En Mongo un límite 0 significa "sin límite".
	if q.take == 0 {
		return 0, nil
	}
	f, err := q.Filter()
	if err != nil {
		return 0, err
	}
	opts := options.Count()
	if q.skip > 0 {
		opts.SetSkip(int64(q.skip))
	}
	if q.take > 0 {
		opts.SetLimit(int64(q.take))
	}
	n, err := q.coll.CountDocuments(ctx, f, opts)
	if err != nil {
		return 0, fmt.Errorf("mongo count error: %w", err)
	}
	return n, nil
}

func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	if q.take == 0 {
		return []T{}, nil
	}
	f, err := q.Filter()
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if len(q.order) > 0 {
		opts.SetSort(q.Sort())
	}
	if q.skip > 0 {
		opts.SetSkip(int64(q.skip))
	}
	if q.take > 0 {
		opts.SetLimit(int64(q.take))
	}

	cursor, err := q.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongo decode error: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
