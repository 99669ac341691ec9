package domain

import "context"

// ---------- Interfaces (Ports) ----------

// Query es una consulta diferida sobre entidades de tipo T.
// Cada método de construcción devuelve una consulta nueva; la original no cambia.
// Solo Count y List acceden al store.
type Query[T any] interface {
	Where(pred Expr) Query[T]
	OrderBy(keys ...OrderKey) Query[T]
	Skip(n int) Query[T]
	Take(n int) Query[T]

	// Count cuenta las filas que cumplen los filtros, respetando Skip/Take si se aplicaron.
	Count(ctx context.Context) (int64, error)
	// List materializa las filas en el orden pedido.
	List(ctx context.Context) ([]T, error)
}
