package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/davicafu/hexapager/internal/pagination/infra/outbound/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type city struct {
	Name string `json:"name"`
}

type person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Active    bool      `json:"active"`
	BirthDate time.Time `json:"birthDate"`
	City      city      `json:"city"`
	Nicknames []string  `json:"nicknames"`
}

func predicate(t *testing.T, path, symbol string, value any) domain.Expr {
	t.Helper()
	f, err := domain.SchemaFor[person]().Resolve(path)
	require.NoError(t, err)
	op, err := domain.LookupOperator(symbol)
	require.NoError(t, err)
	pred, err := op.Predicate(f, value)
	require.NoError(t, err)
	return pred
}

func orderKey(t *testing.T, path string, desc bool) domain.OrderKey {
	t.Helper()
	f, err := domain.SchemaFor[person]().Resolve(path)
	require.NoError(t, err)
	return domain.OrderKey{Field: f, Descending: desc}
}

const personColumns = `"id", "name", "age", "active", "birth_date", "city_name"`

// -------------------- Generación de SQL --------------------

func TestSelectSQL_Dialects(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		build    func(q *Query[person]) domain.Query[person]
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "postgres equality with order and page",
			dialect: Postgres,
			build: func(q *Query[person]) domain.Query[person] {
				return q.Where(predicate(t, "age", ">=", "30")).
					OrderBy(orderKey(t, "age", true), orderKey(t, "name", false)).
					Skip(20).Take(10)
			},
			wantSQL:  `SELECT ` + personColumns + ` FROM "people" WHERE "age" >= $1 ORDER BY "age" DESC, "name" ASC LIMIT 10 OFFSET 20`,
			wantArgs: []any{int64(30)},
		},
		{
			name:    "postgres string contains is case insensitive",
			dialect: Postgres,
			build: func(q *Query[person]) domain.Query[person] {
				return q.Where(predicate(t, "name", "~", "ann"))
			},
			wantSQL:  `SELECT ` + personColumns + ` FROM "people" WHERE strpos(lower("name"), lower(CAST($1 AS TEXT))) > 0`,
			wantArgs: []any{"ann"},
		},
		{
			name:    "sqlite nested field and unlimited take with offset",
			dialect: SQLite,
			build: func(q *Query[person]) domain.Query[person] {
				return q.Where(predicate(t, "city.name", "==", "Madrid")).Skip(5)
			},
			wantSQL:  `SELECT ` + personColumns + ` FROM "people" WHERE "city_name" = ? LIMIT -1 OFFSET 5`,
			wantArgs: []any{"Madrid"},
		},
		{
			name:    "clickhouse numeric contains",
			dialect: ClickHouse,
			build: func(q *Query[person]) domain.Query[person] {
				return q.Where(predicate(t, "age", "like", 3)).Take(5)
			},
			wantSQL:  "SELECT `id`, `name`, `age`, `active`, `birth_date`, `city_name` FROM `people` WHERE positionCaseInsensitiveUTF8(leftPad(toString(toDecimal128(round(toDecimal128(toFloat64(`age`), 4)), 0)), 20), ?) > 0 LIMIT 5",
			wantArgs: []any{"3"},
		},
		{
			name:    "bool contains falls back to equality",
			dialect: SQLite,
			build: func(q *Query[person]) domain.Query[person] {
				return q.Where(predicate(t, "active", "~", "true"))
			},
			wantSQL:  `SELECT ` + personColumns + ` FROM "people" WHERE "active" = ?`,
			wantArgs: []any{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.build(NewQuery[person](nil, "people", tt.dialect)).(*Query[person])
			sqlText, args, err := q.SelectSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sqlText)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSelectSQL_FullTextGroup(t *testing.T) {
	group := domain.Or(domain.BoolConst(false), predicate(t, "name", "~", "jo"), predicate(t, "age", "==", 7))
	q := NewQuery[person](nil, "people", SQLite).Where(group).(*Query[person])

	sqlText, args, err := q.SelectSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT `+personColumns+` FROM "people" WHERE (1 = 0 OR instr(lower("name"), lower(?)) > 0 OR "age" = ?)`, sqlText)
	assert.Equal(t, []any{"jo", int64(7)}, args)
}

func TestSelectSQL_DateContainsPostgres(t *testing.T) {
	q := NewQuery[person](nil, "people", Postgres).
		Where(predicate(t, "birthDate", "~", "/03/")).(*Query[person])

	sqlText, args, err := q.SelectSQL()
	require.NoError(t, err)
	assert.Contains(t, sqlText, `RIGHT((CAST($1 AS TEXT) || TRIM(LPAD(CAST(ROUND(CAST(EXTRACT(DAY FROM "birth_date" AT TIME ZONE 'UTC') AS NUMERIC)) AS TEXT), 2))), 2)`)
	assert.Contains(t, sqlText, `EXTRACT(YEAR FROM "birth_date" AT TIME ZONE 'UTC')`)
	// ceros del día, "/", ceros del mes, "/", ceros del año y el literal buscado
	assert.Equal(t, []any{"0", "/", "0", "/", "000", "/03/"}, args)
}

func TestCountSQL(t *testing.T) {
	base := NewQuery[person](nil, "people", Postgres).
		Where(predicate(t, "name", "!=", "x")).
		OrderBy(orderKey(t, "name", false))

	sqlText, args, err := base.(*Query[person]).CountSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "people" WHERE "name" <> CAST($1 AS TEXT)`, sqlText)
	assert.Equal(t, []any{"x"}, args)

	paged := base.Skip(10).Take(5).(*Query[person])
	sqlText, _, err = paged.CountSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM (SELECT 1 FROM "people" WHERE "name" <> CAST($1 AS TEXT) LIMIT 5 OFFSET 10) AS page`, sqlText)
}

func TestLimitOffset(t *testing.T) {
	assert.Equal(t, "", SQLite.LimitOffset(-1, 0))
	assert.Equal(t, "LIMIT 3", SQLite.LimitOffset(3, 0))
	assert.Equal(t, "LIMIT 3 OFFSET 6", Postgres.LimitOffset(3, 6))
	assert.Equal(t, "OFFSET 6", Postgres.LimitOffset(-1, 6))
	assert.Equal(t, "LIMIT 9223372036854775807 OFFSET 6", ClickHouse.LimitOffset(-1, 6))
}

func TestDialectByName(t *testing.T) {
	d, err := DialectByName("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = DialectByName("oracle")
	assert.Error(t, err)
}

// -------------------- Lectura con sqlmock --------------------

func TestQuery_CountAndList(t *testing.T) {
	ctx := context.Background()
	birth := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		run     func(q domain.Query[person]) (any, error)
		want    any
		wantErr bool
	}{
		{
			name: "count with filter",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT(*) FROM "people" WHERE "active" = $1`).
					WithArgs(true).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
			},
			run: func(q domain.Query[person]) (any, error) {
				return q.Where(predicate(t, "active", "==", true)).Count(ctx)
			},
			want: int64(2),
		},
		{
			name: "list scans nested columns",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + personColumns + ` FROM "people" ORDER BY "name" ASC LIMIT 1`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "active", "birth_date", "city_name"}).
						AddRow(int64(1), "Ann", int64(34), true, birth, "Madrid"))
			},
			run: func(q domain.Query[person]) (any, error) {
				return q.OrderBy(orderKey(t, "name", false)).Take(1).List(ctx)
			},
			want: []person{{ID: 1, Name: "Ann", Age: 34, Active: true, BirthDate: birth, City: city{Name: "Madrid"}}},
		},
		{
			name: "empty list is not nil",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT ` + personColumns + ` FROM "people"`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "active", "birth_date", "city_name"}))
			},
			run: func(q domain.Query[person]) (any, error) {
				return q.List(ctx)
			},
			want: []person{},
		},
		{
			name: "count db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT(*) FROM "people"`).WillReturnError(sql.ErrConnDone)
			},
			run: func(q domain.Query[person]) (any, error) {
				return q.Count(ctx)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			got, err := tt.run(NewQuery[person](db, "people", Postgres))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// -------------------- Integración con SQLite --------------------

type book struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Pages     int     `json:"pages"`
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
}

type release struct {
	ID        int64     `json:"id"`
	Published time.Time `json:"published"`
}

func setupSQLite(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT, pages INTEGER, available INTEGER, price REAL);
		INSERT INTO books VALUES
			(1, 'Go in Action', 264, 1, 39.5),
			(2, 'The Go Programming Language', 380, 1, 44.0),
			(3, 'Concurrency in GO', 238, 0, 35.0),
			(4, 'Learning SQL', 378, 1, 29.99);
		CREATE TABLE releases (id INTEGER PRIMARY KEY, published TEXT);
		INSERT INTO releases VALUES (1, '2021-03-05'), (2, '2022-11-03'), (3, '2023-03-30');
	`)
	require.NoError(t, err)
	return db
}

func bookPredicate(t *testing.T, path, symbol string, value any) domain.Expr {
	t.Helper()
	f, err := domain.SchemaFor[book]().Resolve(path)
	require.NoError(t, err)
	op, err := domain.LookupOperator(symbol)
	require.NoError(t, err)
	pred, err := op.Predicate(f, value)
	require.NoError(t, err)
	return pred
}

func TestSQLiteIntegration_FilterSortPage(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	pages, err := domain.SchemaFor[book]().Resolve("pages")
	require.NoError(t, err)

	q := NewQuery[book](db, "books", SQLite).
		Where(bookPredicate(t, "title", "~", "go")).
		OrderBy(domain.OrderKey{Field: pages, Descending: true})

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	list, err := q.Skip(1).Take(1).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Go in Action", list[0].Title)
	assert.True(t, list[0].Available)
}

func TestSQLiteIntegration_NumericContains(t *testing.T) {
	db := setupSQLite(t)

	// 264 y 238 contienen "2"; 380 y 378 no.
	n, err := NewQuery[book](db, "books", SQLite).
		Where(bookPredicate(t, "pages", "~", 2)).
		Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSQLiteIntegration_DateContains(t *testing.T) {
	db := setupSQLite(t)
	f, err := domain.SchemaFor[release]().Resolve("published")
	require.NoError(t, err)
	op, err := domain.LookupOperator("~")
	require.NoError(t, err)

	partial, err := op.Predicate(f, "/03/")
	require.NoError(t, err)
	n, err := NewQuery[release](db, "releases", SQLite).Where(partial).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	full, err := op.Predicate(f, "03/11/2022")
	require.NoError(t, err)
	n, err = NewQuery[release](db, "releases", SQLite).Where(full).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInsertSQL(t *testing.T) {
	birth := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)
	p := &person{ID: 7, Name: "Ana", Age: 34, Active: true, BirthDate: birth, City: city{Name: "Madrid"}}

	query, args := InsertSQL("people", Postgres, p)
	assert.Equal(t, `INSERT INTO "people" (`+personColumns+`) VALUES ($1, CAST($2 AS TEXT), $3, $4, $5, CAST($6 AS TEXT))`, query)
	assert.Equal(t, []any{int64(7), "Ana", int64(34), true, birth, "Madrid"}, args)

	query, _ = InsertSQL("people", ClickHouse, p)
	assert.Equal(t, "INSERT INTO `people` (`id`, `name`, `age`, `active`, `birth_date`, `city_name`) VALUES (?, ?, ?, ?, ?, ?)", query)

	// SQLite recibe las fechas como texto UTC legible por strftime.
	p.BirthDate = time.Date(1990, 3, 14, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	_, args = InsertSQL("people", SQLite, p)
	assert.Equal(t, "1990-03-15 04:30:00+00:00", args[4])
}

// -------------------- Misma respuesta en todos los stores --------------------

type event struct {
	ID int64     `json:"id"`
	At time.Time `json:"at"`
}

func TestSQLiteAndMemory_DateContainsUsesUTC(t *testing.T) {
	// Sin _time_format: el formato de las fechas no depende del DSN.
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	_, err = db.Exec(`CREATE TABLE events (id INTEGER PRIMARY KEY, at DATETIME)`)
	require.NoError(t, err)

	// 23:30 en UTC-5 es ya el día 16 en UTC.
	e := event{ID: 1, At: time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))}
	require.NoError(t, Insert(ctx, db, "events", SQLite, &e))

	at, err := domain.SchemaFor[event]().Resolve("at")
	require.NoError(t, err)
	op, err := domain.LookupOperator("~")
	require.NoError(t, err)

	tests := []struct {
		name   string
		needle string
		want   int64
	}{
		{"dia en UTC", "16/03/2024", 1},
		{"dia local", "15/03/2024", 0},
		{"mes y año", "/03/2024", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := op.Predicate(at, tt.needle)
			require.NoError(t, err)

			inSQLite, err := NewQuery[event](db, "events", SQLite).Where(pred).Count(ctx)
			require.NoError(t, err)
			inMemory, err := memory.NewQuery([]event{e}).Where(pred).Count(ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.want, inSQLite)
			assert.Equal(t, tt.want, inMemory)
		})
	}

	list, err := NewQuery[event](db, "events", SQLite).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, e.At.Equal(list[0].At))
}

func TestSQLiteAndMemory_NumericContainsRoundsHalfAwayFromZero(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	books := []book{
		{ID: 1, Title: "Go in Action", Pages: 264, Available: true, Price: 39.5},
		{ID: 2, Title: "The Go Programming Language", Pages: 380, Available: true, Price: 44.0},
		{ID: 3, Title: "Concurrency in GO", Pages: 238, Price: 35.0},
		{ID: 4, Title: "Learning SQL", Pages: 378, Available: true, Price: 29.99},
	}

	// 39.5 se redondea a 40, no a 39.
	for needle, want := range map[string]int64{"40": 1, "39": 0, "30": 1} {
		pred := bookPredicate(t, "price", "~", needle)

		inSQLite, err := NewQuery[book](db, "books", SQLite).Where(pred).Count(ctx)
		require.NoError(t, err)
		inMemory, err := memory.NewQuery(books).Where(pred).Count(ctx)
		require.NoError(t, err)

		assert.Equal(t, want, inSQLite, needle)
		assert.Equal(t, want, inMemory, needle)
	}
}
