package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	userDomain "github.com/davicafu/hexapager/internal/user/domain"
)

var userColumns = []string{
	"id", "email", "name", "initial", "score", "active", "balance",
	"birth_date", "created_at", "address_street", "address_city", "address_country",
}

func newTestUser(t *testing.T) *userDomain.User {
	t.Helper()
	u, err := userDomain.NewUser("ana@example.com", "Ana", time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
		userDomain.Address{Street: "Gran Vía 1", City: "Madrid", Country: "ES"})
	require.NoError(t, err)
	return u
}

func TestUserRepoPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepoPostgres(db)
	u := newTestUser(t)

	insert := regexp.QuoteMeta(`INSERT INTO "users" ("id", "email", "name", "initial", "score", "active", "balance", "birth_date", "created_at", "address_street", "address_city", "address_country") VALUES (CAST($1 AS TEXT), CAST($2 AS TEXT), CAST($3 AS TEXT), CAST($4 AS TEXT), $5, $6, $7, $8, $9, CAST($10 AS TEXT), CAST($11 AS TEXT), CAST($12 AS TEXT))`)

	mock.ExpectExec(insert).
		WithArgs(u.ID.String(), u.Email, u.Name, "A", int64(0), true, float64(0),
			u.BirthDate, u.CreatedAt, "Gran Vía 1", "Madrid", "ES").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), u))

	mock.ExpectExec(insert).WillReturnError(&pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, repo.Create(context.Background(), u), userDomain.ErrUserAlreadyExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoPostgres_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepoPostgres(db)
	u := newTestUser(t)

	query := regexp.QuoteMeta(`FROM "users" WHERE "id" = CAST($1 AS TEXT) LIMIT 1`)
	mock.ExpectQuery(query).
		WithArgs(u.ID.String()).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			u.ID.String(), u.Email, u.Name, "A", int64(9), true, 12.5,
			u.BirthDate, u.CreatedAt, "Gran Vía 1", "Madrid", "ES"))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, paging.Char('A'), got.Initial)
	assert.Equal(t, 9, got.Score)
	assert.Equal(t, 12.5, got.Balance)
	assert.Equal(t, "Madrid", got.Address.City)

	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(userColumns))
	_, err = repo.GetByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
