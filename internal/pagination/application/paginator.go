package application

import (
	"context"
	"fmt"

	"github.com/davicafu/hexapager/internal/pagination/domain"
	"go.uber.org/zap"
)

// Paginator aplica ordenación, filtros y paginación sobre consultas de T.
// No guarda estado entre llamadas y es seguro para uso concurrente.
type Paginator[T any] struct {
	schema *domain.Schema
	log    *zap.Logger
}

// NewPaginator construye un Paginator para T. El esquema de T se calcula una sola vez por proceso.
func NewPaginator[T any](log *zap.Logger) *Paginator[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Paginator[T]{
		schema: domain.SchemaFor[T](),
		log:    log,
	}
}

// Paginate ejecuta la consulta paginada: una lectura para contar y otra para traer la página.
// Los errores de la petición (campo desconocido, valor inválido...) se detectan antes de leer.
func (p *Paginator[T]) Paginate(ctx context.Context, query domain.Query[T], params domain.Parameters) (*domain.Result[T], error) {
	if !params.ShowAllItems && params.ItemsPerPage <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPageSize, params.ItemsPerPage)
	}

	order, err := buildOrder(p.schema, params.Sorters)
	if err != nil {
		return nil, err
	}
	restrictions, err := buildRestrictions(p.schema, params, p.log)
	if err != nil {
		return nil, err
	}

	if len(order) > 0 {
		query = query.OrderBy(order...)
	}
	for _, r := range restrictions {
		query = query.Where(r)
	}

	itemCount, err := query.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	page := ComputePage(itemCount, params.ItemsPerPage, params.Page, params.ShowAllItems)
	p.log.Debug("Page computed",
		zap.Int64("item_count", itemCount),
		zap.Int("page_count", page.PageCount),
		zap.Int("current_page", page.CurrentPage),
		zap.Int("item_offset", page.ItemOffset),
	)

	fetch := query.Skip(page.Skip)
	if page.Take >= 0 {
		fetch = fetch.Take(page.Take)
	}
	items, err := fetch.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	if items == nil {
		items = []T{}
	}

	return &domain.Result[T]{
		ItemCount:   itemCount,
		PageCount:   page.PageCount,
		CurrentPage: page.CurrentPage,
		ItemOffset:  page.ItemOffset,
		ItemList:    items,
	}, nil
}

// Paginate es un atajo sin logger.
func Paginate[T any](ctx context.Context, query domain.Query[T], params domain.Parameters) (*domain.Result[T], error) {
	return NewPaginator[T](nil).Paginate(ctx, query, params)
}
