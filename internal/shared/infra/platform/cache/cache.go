package cache

import "context"

// Cache es la caché clave-valor de los servicios (Redis o memoria).
// Los valores viajan en JSON, así que dest en Get debe ser un puntero.
type Cache interface {
	// Get devuelve (true, nil) en un hit y (false, nil) en un miss o una key expirada.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set guarda val durante ttlSecs segundos; con ttlSecs <= 0 el store usa su TTL por defecto.
	Set(ctx context.Context, key string, val any, ttlSecs int) error

	Delete(ctx context.Context, key string) error
}
