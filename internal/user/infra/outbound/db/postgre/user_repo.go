package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/davicafu/hexapager/internal/pagination/infra/outbound/sqlstore"
	userDomain "github.com/davicafu/hexapager/internal/user/domain"
)

const (
	usersTable        = "users"
	uniqueViolationPG = "23505"
)

type UserRepoPostgres struct {
	db *sql.DB
}

// Verificación estática
var _ userDomain.UserRepository = (*UserRepoPostgres)(nil)

func NewUserRepoPostgres(db *sql.DB) *UserRepoPostgres {
	return &UserRepoPostgres{db: db}
}

// ------------------ Métodos ------------------

func (r *UserRepoPostgres) Create(ctx context.Context, u *userDomain.User) error {
	err := sqlstore.Insert(ctx, r.db, usersTable, sqlstore.Postgres, u)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationPG {
		return userDomain.ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepoPostgres) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return userDomain.FindByID(ctx, r.Query(), id)
}

func (r *UserRepoPostgres) Query() paging.Query[userDomain.User] {
	return sqlstore.NewQuery[userDomain.User](r.db, usersTable, sqlstore.Postgres)
}

// ------------------ Inicialización de DB ------------------

// InitPostgres crea la tabla users si no existe.
// El id se guarda como TEXT: los filtros lo comparan como texto en todos los dialectos.
func InitPostgres(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			initial TEXT NOT NULL DEFAULT '',
			score BIGINT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			balance DOUBLE PRECISION NOT NULL DEFAULT 0,
			birth_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			address_street TEXT NOT NULL DEFAULT '',
			address_city TEXT NOT NULL DEFAULT '',
			address_country TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at)`)
	return err
}
