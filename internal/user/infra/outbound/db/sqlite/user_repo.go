package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/davicafu/hexapager/internal/pagination/infra/outbound/sqlstore"
	"github.com/davicafu/hexapager/internal/user/domain"
)

const usersTable = "users"

type UserRepoSQLite struct {
	db *sql.DB
}

// Verificación estática
var _ domain.UserRepository = (*UserRepoSQLite)(nil)

func NewUserRepoSQLite(db *sql.DB) *UserRepoSQLite {
	return &UserRepoSQLite{db: db}
}

// ------------------ Métodos ------------------

// Create inserta el usuario; email e id son únicos.
func (r *UserRepoSQLite) Create(ctx context.Context, u *domain.User) error {
	err := sqlstore.Insert(ctx, r.db, usersTable, sqlstore.SQLite, u)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrUserAlreadyExists
	}
	return err
}

// GetByID reutiliza la consulta genérica con un filtro de igualdad por id.
func (r *UserRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return domain.FindByID(ctx, r.Query(), id)
}

func (r *UserRepoSQLite) Query() paging.Query[domain.User] {
	return sqlstore.NewQuery[domain.User](r.db, usersTable, sqlstore.SQLite)
}

// ------------------ Inicialización de DB ------------------

// InitSQLite crea la tabla users si no existe.
// Las fechas se guardan como texto UTC que strftime sabe leer (lo escribe el dialecto).
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            initial TEXT NOT NULL DEFAULT '',
            score INTEGER NOT NULL DEFAULT 0,
            active BOOLEAN NOT NULL DEFAULT 1,
            balance REAL NOT NULL DEFAULT 0,
            birth_date DATETIME NOT NULL,
            created_at DATETIME NOT NULL,
            address_street TEXT NOT NULL DEFAULT '',
            address_city TEXT NOT NULL DEFAULT '',
            address_country TEXT NOT NULL DEFAULT ''
        )
    `)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at)`)
	return err
}
