package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/google/uuid"
)

// Address es un registro relacionado de un solo valor: se puede filtrar y ordenar
// por sus campos con rutas como "address.city".
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	Country string `json:"country" bson:"country"`
}

// User representa un usuario del sistema.
type User struct {
	ID        uuid.UUID   `json:"id" bson:"_id"`
	Email     string      `json:"email" bson:"email"`
	Name      string      `json:"name" bson:"name"`
	Initial   paging.Char `json:"initial" bson:"initial"`
	Score     int         `json:"score" bson:"score"`
	Active    bool        `json:"active" bson:"active"`
	Balance   float64     `json:"balance" bson:"balance"`
	BirthDate time.Time   `json:"birthDate" bson:"birth_date"`
	CreatedAt time.Time   `json:"createdAt" bson:"created_at"`
	Address   Address     `json:"address" bson:"address"`
	// Tags es una colección: no admite filtros ni se persiste en las tablas SQL.
	Tags []string `json:"tags" db:"-" bson:"tags"`
}

// NewUser valida los datos y construye un usuario activo.
func NewUser(email, name string, birthDate time.Time, address Address) (*User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidUser, email)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidUser)
	}
	if birthDate.IsZero() || birthDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: invalid birth date", ErrInvalidUser)
	}

	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Initial:   initialOf(name),
		Active:    true,
		BirthDate: birthDate.UTC(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Address:   address,
	}, nil
}

func initialOf(name string) paging.Char {
	for _, r := range name {
		return paging.Char(unicode.ToUpper(r))
	}
	return 0
}

// Age calcula la edad del usuario a partir de su fecha de nacimiento.
func (u *User) Age() int {
	now := time.Now()
	years := now.Year() - u.BirthDate.Year()
	if now.Month() < u.BirthDate.Month() ||
		(now.Month() == u.BirthDate.Month() && now.Day() < u.BirthDate.Day()) {
		years--
	}
	return years
}
