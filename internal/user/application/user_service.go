package application

import (
	"context"
	"errors"
	"time"

	pagingApp "github.com/davicafu/hexapager/internal/pagination/application"
	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	sharedCache "github.com/davicafu/hexapager/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/hexapager/internal/shared/infra/utils"
	"github.com/davicafu/hexapager/internal/user/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// UserService define los casos de uso relacionados con User.
type UserService struct {
	repo      domain.UserRepository
	cache     domain.UserCache
	paginator *pagingApp.Paginator[domain.User]
	log       *zap.Logger
	cacheTTL  int // segundos
}

// NewUserService constructor
func NewUserService(repo domain.UserRepository, cache domain.UserCache, cacheTTL time.Duration, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		repo:      repo,
		cache:     cache,
		paginator: pagingApp.NewPaginator[domain.User](log),
		log:       log,
		cacheTTL:  int(cacheTTL.Seconds()),
	}
}

// CreateUserInput agrupa los datos de alta.
type CreateUserInput struct {
	Email     string
	Name      string
	BirthDate time.Time
	Score     int
	Balance   float64
	Address   domain.Address
	Tags      []string
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	user, err := domain.NewUser(in.Email, in.Name, in.BirthDate, in.Address)
	if err != nil {
		return nil, err
	}
	user.Score = in.Score
	user.Balance = in.Balance
	user.Tags = in.Tags

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User created", zap.String("id", user.ID.String()))

	if s.cache != nil {
		sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(user.ID), user, s.cacheTTL, s.log)
		// Nueva generación: las páginas cacheadas dejan de usarse.
		if err := s.cache.Set(ctx, domain.ListGenerationKey, time.Now().UnixNano(), 0); err != nil {
			s.log.Warn("Cache update failed", zap.String("key", domain.ListGenerationKey), zap.Error(err))
		}
	}

	return user, nil
}

// GetUser obtiene un usuario (primero intenta desde cache).
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	// 1. Intentar cache
	if s.cache != nil {
		var u domain.User
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &u); ok {
			return &u, nil
		}
	}

	// 2. Ir al repo con reintentos
	var user *domain.User
	err := sharedUtils.Retry(ctx, retryAttempts, retryDelay, func() error {
		var err error
		user, err = s.repo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrUserNotFound) {
			return sharedUtils.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	// 3. Guardar en cache en background
	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(id), user, s.cacheTTL, s.log)

	return user, nil
}

// ListUsers pagina, ordena y filtra usuarios. Las páginas se cachean por parámetros.
// Los errores de la petición (errors.Is(err, paging.ErrPagination)) no se reintentan.
func (s *UserService) ListUsers(ctx context.Context, params paging.Parameters) (*paging.Result[domain.User], error) {
	var key string
	if s.cache != nil {
		var gen int64
		if _, err := s.cache.Get(ctx, domain.ListGenerationKey, &gen); err != nil {
			s.log.Warn("Cache read failed", zap.String("key", domain.ListGenerationKey), zap.Error(err))
		}
		key = domain.CacheKeyByParams(params, gen)

		var cached paging.Result[domain.User]
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return &cached, nil
		}
	}

	var result *paging.Result[domain.User]
	err := sharedUtils.Retry(ctx, retryAttempts, retryDelay, func() error {
		var err error
		result, err = s.paginator.Paginate(ctx, s.repo.Query(), params)
		if errors.Is(err, paging.ErrPagination) {
			return sharedUtils.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("Users listed",
		zap.Int64("item_count", result.ItemCount),
		zap.Int("current_page", result.CurrentPage))

	if key != "" {
		sharedCache.AsyncCacheSet(ctx, s.cache, key, result, s.cacheTTL, s.log)
	}
	return result, nil
}
