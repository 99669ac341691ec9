package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	sharedCache "github.com/davicafu/hexapager/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/hexapager/internal/shared/infra/utils"
	"github.com/davicafu/hexapager/internal/user/domain"
)

// entry guarda el JSON del valor, igual que Redis, y su expiración.
type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool { return now.After(e.expiresAt) }

// InMemoryCache es la caché de usuarios cuando no hay Redis.
// Además de las keys expiradas, la limpieza descarta las páginas de listados de
// generaciones anteriores: tras un alta ya nadie las pide y solo ocupan memoria.
type InMemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	log        *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// Verificación estática
var (
	_ sharedCache.Cache = (*InMemoryCache)(nil)
	_ domain.UserCache  = (*InMemoryCache)(nil)
)

// NewInMemoryCache arranca la limpieza periódica cada cleanupInterval.
// defaultTTL se usa cuando Set recibe ttlSecs <= 0.
func NewInMemoryCache(defaultTTL, cleanupInterval time.Duration, log *zap.Logger) *InMemoryCache {
	if log == nil {
		log = zap.NewNop()
	}
	c := &InMemoryCache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		log:        log,
		stop:       make(chan struct{}),
	}
	go c.cleanupLoop(cleanupInterval)
	return c
}

func (c *InMemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return false, nil
	}
	if err := json.Unmarshal(e.value, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(sharedUtils.TTL(ttlSecs, c.defaultTTL))

	c.mu.Lock()
	c.entries[key] = entry{value: data, expiresAt: expiresAt}
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Stop detiene la limpieza. Se puede llamar más de una vez.
func (c *InMemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Len cuenta las keys guardadas, incluidas las expiradas que aún no se han purgado.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			expired, stale := c.purge(time.Now())
			if expired+stale > 0 {
				c.log.Debug("User cache purged",
					zap.Int("expired", expired),
					zap.Int("stale_pages", stale),
					zap.Int("remaining", c.Len()))
			}
		case <-c.stop:
			return
		}
	}
}

// purge elimina las keys expiradas en now y las páginas de generaciones distintas
// de la actual. Sin generación guardada la actual es 0, la misma que usa el servicio.
func (c *InMemoryCache) purge(now time.Time) (expired, stale int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current int64
	if e, ok := c.entries[domain.ListGenerationKey]; ok && !e.expired(now) {
		_ = json.Unmarshal(e.value, &current)
	}

	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			expired++
			continue
		}
		if gen, ok := domain.ListPageGeneration(key); ok && gen != current {
			delete(c.entries, key)
			stale++
		}
	}
	return expired, stale
}
