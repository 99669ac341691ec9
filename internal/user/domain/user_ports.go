package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/google/uuid"
)

// ---------- Errores de dominio ----------
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidUser       = errors.New("invalid user")
)

// ---------- Interfaces (Ports) ----------

// UserRepository define las operaciones persistentes para User.
type UserRepository interface {
	// Debe devolver ErrUserAlreadyExists si el ID ya existe.
	Create(ctx context.Context, u *User) error

	// Debe devolver ErrUserNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Query devuelve una consulta sin filtros sobre todos los usuarios,
	// lista para que el paginador aplique orden, filtros y página.
	Query() paging.Query[User]
}

type UserCache interface {
	// Get intenta poblar dest (puntero) con el valor asociado a la key.
	// Devuelve (true, nil) si hay hit y dest fue rellenado.
	// Devuelve (false, nil) si es miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set serializa y guarda el valor con TTL en segundos.
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error

	// Delete elimina la key del cache.
	Delete(ctx context.Context, key string) error
}

// ---------- Helpers comunes (cache keys, etc.) ----------

// ListGenerationKey guarda la generación actual de los listados; cambia con cada alta.
const ListGenerationKey = "user:list:gen"

const listPagePrefix = "user:list:"

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("user:id:%s", id.String())
}

// CacheKeyByParams forma la key de una página a partir de los parámetros y la generación.
func CacheKeyByParams(params paging.Parameters, generation int64) string {
	data, _ := json.Marshal(params)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s%d:%s", listPagePrefix, generation, hex.EncodeToString(sum[:12]))
}

// ListPageGeneration devuelve la generación de una key creada por CacheKeyByParams.
// ok es false para cualquier otra key, incluida ListGenerationKey.
func ListPageGeneration(key string) (generation int64, ok bool) {
	rest, found := strings.CutPrefix(key, listPagePrefix)
	if !found {
		return 0, false
	}
	genText, _, found := strings.Cut(rest, ":")
	if !found {
		return 0, false
	}
	generation, err := strconv.ParseInt(genText, 10, 64)
	return generation, err == nil
}

// FindByID filtra q por id y devuelve el primer usuario, o ErrUserNotFound.
// Los repositorios lo usan para no duplicar la lectura de filas.
func FindByID(ctx context.Context, q paging.Query[User], id uuid.UUID) (*User, error) {
	idField, err := paging.SchemaFor[User]().Resolve("id")
	if err != nil {
		return nil, err
	}
	users, err := q.Where(paging.Comparison{
		Op:    paging.CmpEq,
		Left:  paging.FieldRef{Field: idField},
		Right: paging.Literal{Value: id},
	}).Take(1).List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}
