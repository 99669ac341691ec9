package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// asyncSetTimeout limita cada escritura en background.
const asyncSetTimeout = 200 * time.Millisecond

// AsyncCacheSet guarda value en background sin bloquear la petición.
// El valor se serializa antes de lanzar la goroutine, así que el llamador puede
// seguir usándolo. La escritura no se cancela con ctx: sobrevive al fin de la petición.
func AsyncCacheSet(ctx context.Context, cache Cache, key string, value interface{}, ttl int, log *zap.Logger) {
	if cache == nil {
		return
	}

	snapshot, err := json.Marshal(value)
	if err != nil {
		log.Warn("Cache update skipped", zap.String("key", key), zap.Error(err))
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), asyncSetTimeout)
		defer cancel()

		if err := cache.Set(cacheCtx, key, json.RawMessage(snapshot), ttl); err != nil {
			log.Warn("Cache update failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}
