package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/davicafu/hexapager/internal/pagination/infra/outbound/sqlstore"
	userDomain "github.com/davicafu/hexapager/internal/user/domain"
)

const usersTable = "users"

// UserRepoClickHouse guarda usuarios en una tabla MergeTree. Es útil para paginar
// volúmenes grandes; ClickHouse no aplica restricciones únicas, así que Create
// comprueba el id antes de insertar.
type UserRepoClickHouse struct {
	db *sql.DB
}

// Verificación estática
var _ userDomain.UserRepository = (*UserRepoClickHouse)(nil)

// OpenClickHouse abre la conexión database/sql del driver oficial.
func OpenClickHouse(addr, dbName string) (*sql.DB, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}
	return conn, nil
}

func NewUserRepoClickHouse(db *sql.DB) *UserRepoClickHouse {
	return &UserRepoClickHouse{db: db}
}

// ------------------ Métodos ------------------

// Create comprueba el id antes de insertar. ClickHouse no tiene restricciones UNIQUE y la
// comprobación no es atómica: dos altas concurrentes del mismo id pueden pasar las dos.
// La tabla es ReplacingMergeTree por id, así que esas filas se funden en la siguiente fusión.
func (r *UserRepoClickHouse) Create(ctx context.Context, u *userDomain.User) error {
	if _, err := r.GetByID(ctx, u.ID); err == nil {
		return userDomain.ErrUserAlreadyExists
	} else if !errors.Is(err, userDomain.ErrUserNotFound) {
		return err
	}

	// ClickHouse funciona mejor con inserciones en lotes: sentencia preparada sin VALUES.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s)",
		sqlstore.ClickHouse.Quote(usersTable),
		strings.Join(sqlstore.Columns[userDomain.User](sqlstore.ClickHouse), ", ")))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, sqlstore.Values(sqlstore.ClickHouse, u)...); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to exec statement for user %s: %w", u.ID, err)
	}
	return tx.Commit()
}

func (r *UserRepoClickHouse) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return userDomain.FindByID(ctx, r.Query(), id)
}

func (r *UserRepoClickHouse) Query() paging.Query[userDomain.User] {
	return sqlstore.NewQuery[userDomain.User](r.db, usersTable, sqlstore.ClickHouse)
}

// ------------------ Inicialización de DB ------------------

// InitClickHouse crea la tabla users si no existe. El id se guarda como String
// para que el driver lo devuelva como texto al escanear, y es la clave de
// ReplacingMergeTree: un id repetido se queda con la versión de created_at más reciente.
func InitClickHouse(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id String,
			email String,
			name String,
			initial String,
			score Int64,
			active Bool,
			balance Float64,
			birth_date DateTime64(3, 'UTC'),
			created_at DateTime64(3, 'UTC'),
			address_street String,
			address_city String,
			address_country String
		) ENGINE = ReplacingMergeTree(created_at)
		ORDER BY id
	`)
	return err
}
