package domain

import (
	"errors"
	"fmt"
)

// ErrPagination es la familia común de todos los fallos del motor de paginación.
// Cualquier error devuelto por el motor por una petición mal formada cumple
// errors.Is(err, ErrPagination).
var ErrPagination = errors.New("pagination error")

// ---------- Errores de dominio ----------
var (
	ErrUnknownField               = newKindError("unknown field")
	ErrCollectionFieldUnsupported = newKindError("collection fields are not supported")
	ErrUnsupportedFieldType       = newKindError("field type is not filterable")
	ErrFilterValueInvalid         = newKindError("invalid filter value")
	ErrUnknownOperator            = newKindError("unknown operator")
	ErrInvalidPageSize            = newKindError("items per page must be positive")
)

// kindError identifica un tipo de fallo y pertenece siempre a ErrPagination.
type kindError struct {
	msg string
}

func newKindError(msg string) error {
	return &kindError{msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool {
	return target == ErrPagination
}

// fieldError añade la ruta del campo al tipo de fallo.
func fieldError(kind error, path string) error {
	return fmt.Errorf("%w: %q", kind, path)
}

// ConversionError describe un valor de filtro que no se pudo convertir al tipo del campo.
type ConversionError struct {
	Field    string
	Value    any
	TypeName string
	Err      error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("could not convert value %q to type %s of field %q", fmt.Sprint(e.Value), e.TypeName, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return ErrFilterValueInvalid }
