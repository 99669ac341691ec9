package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	pagingMemory "github.com/davicafu/hexapager/internal/pagination/infra/outbound/memory"
	"github.com/davicafu/hexapager/internal/user/domain"
)

// UserRepoMemory guarda los usuarios en un slice protegido por mutex.
// Sirve para desarrollo local y para los tests de la capa de aplicación.
type UserRepoMemory struct {
	mu    sync.RWMutex
	users []domain.User
}

// Verificación estática
var _ domain.UserRepository = (*UserRepoMemory)(nil)

func NewUserRepoMemory(seed ...domain.User) *UserRepoMemory {
	return &UserRepoMemory{users: append([]domain.User(nil), seed...)}
}

func (r *UserRepoMemory) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.ID == u.ID || strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrUserAlreadyExists
		}
	}
	r.users = append(r.users, *u)
	return nil
}

func (r *UserRepoMemory) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return domain.FindByID(ctx, r.Query(), id)
}

// Query trabaja sobre una instantánea: las altas posteriores no la modifican.
func (r *UserRepoMemory) Query() paging.Query[domain.User] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pagingMemory.NewQuery(append([]domain.User(nil), r.users...))
}
