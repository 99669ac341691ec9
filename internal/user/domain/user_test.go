package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	pagingMemory "github.com/davicafu/hexapager/internal/pagination/infra/outbound/memory"
)

func TestUser_Age(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		birth    time.Time
		expected int
	}{
		{
			name:     "cumpleaños ya pasado este año",
			birth:    time.Date(now.Year()-30, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 30,
		},
		{
			name:     "cumpleaños hoy",
			birth:    time.Date(now.Year()-40, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			expected: 40,
		},
		{
			name:     "cumpleaños mañana",
			birth:    time.Date(now.Year()-25, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1),
			expected: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Email: "test@example.com", Name: "Test", BirthDate: tt.birth}
			assert.Equal(t, tt.expected, user.Age())
		})
	}
}

func TestNewUser(t *testing.T) {
	birth := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)

	u, err := NewUser("  ana@example.com ", " ñandú ", birth, Address{City: "Madrid"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "ñandú", u.Name)
	assert.Equal(t, paging.Char('Ñ'), u.Initial)
	assert.True(t, u.Active)
	assert.Equal(t, u.CreatedAt, u.CreatedAt.Truncate(time.Millisecond))

	tests := []struct {
		name  string
		email string
		uname string
		birth time.Time
	}{
		{"email inválido", "nope", "Ana", birth},
		{"nombre vacío", "ana@example.com", "  ", birth},
		{"sin fecha", "ana@example.com", "Ana", time.Time{}},
		{"fecha futura", "ana@example.com", "Ana", time.Now().AddDate(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.uname, tt.birth, Address{})
			assert.ErrorIs(t, err, ErrInvalidUser)
		})
	}
}

func TestCacheKeyByParams(t *testing.T) {
	p1 := paging.Parameters{Page: 1, ItemsPerPage: 10}
	p2 := paging.Parameters{Page: 2, ItemsPerPage: 10}

	assert.Equal(t, CacheKeyByParams(p1, 7), CacheKeyByParams(p1, 7))
	assert.NotEqual(t, CacheKeyByParams(p1, 7), CacheKeyByParams(p2, 7))
	assert.NotEqual(t, CacheKeyByParams(p1, 7), CacheKeyByParams(p1, 8))
	assert.Regexp(t, `^user:list:7:[0-9a-f]{24}$`, CacheKeyByParams(p1, 7))
}

func TestListPageGeneration(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		want   int64
		wantOk bool
	}{
		{"página", CacheKeyByParams(paging.Parameters{Page: 3}, 1729000000000000000), 1729000000000000000, true},
		{"generación cero", CacheKeyByParams(paging.Parameters{}, 0), 0, true},
		{"key de generación", ListGenerationKey, 0, false},
		{"key de usuario", CacheKeyByID(uuid.New()), 0, false},
		{"generación no numérica", "user:list:abc:ff", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ListPageGeneration(tt.key)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindByID(t *testing.T) {
	a, err := NewUser("a@example.com", "A", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), Address{})
	require.NoError(t, err)
	b, err := NewUser("b@example.com", "B", time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC), Address{})
	require.NoError(t, err)
	q := pagingMemory.NewQuery([]User{*a, *b})

	got, err := FindByID(context.Background(), q, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", got.Email)

	_, err = FindByID(context.Background(), q, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
