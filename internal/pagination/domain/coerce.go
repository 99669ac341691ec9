package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DateLayout es el formato textual de las fechas en filtros "contiene".
const DateLayout = "02/01/2006"

// timeLayouts se prueban en orden al convertir texto a fecha.
var timeLayouts = []string{
	DateLayout,
	"02/01/2006 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var errNilValue = errors.New("value is null")

// Coerce convierte el valor sin tipar de un filtro al tipo del campo.
// El resultado es canónico: string, bool, int64, uint64, float64, time.Time o uuid.UUID
// (los Char se devuelven como string de una runa).
// Si falla devuelve un *ConversionError, que envuelve ErrFilterValueInvalid.
func Coerce(f *Field, raw any) (any, error) {
	if !f.Kind.Filterable() {
		return nil, fieldError(ErrUnsupportedFieldType, f.Path)
	}
	v, err := convert(f, raw)
	if err != nil {
		return nil, &ConversionError{Field: f.Path, Value: raw, TypeName: f.Type.Name(), Err: err}
	}
	return v, nil
}

func convert(f *Field, raw any) (any, error) {
	if raw == nil {
		return nil, errNilValue
	}
	if n, ok := raw.(json.Number); ok {
		raw = n.String()
	}

	switch f.Kind {
	case KindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return fmt.Sprint(raw), nil

	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(v))
		}

	case KindChar:
		switch v := raw.(type) {
		case Char:
			return v.String(), nil
		case string:
			if utf8.RuneCountInString(v) == 1 {
				return v, nil
			}
			return nil, fmt.Errorf("expected a single character")
		}

	case KindInt:
		bits := f.Type.Bits()
		switch v := raw.(type) {
		case string:
			return strconv.ParseInt(strings.TrimSpace(v), 10, bits)
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("%v is not an integer", v)
			}
			return strconv.ParseInt(strconv.FormatFloat(v, 'f', 0, 64), 10, bits)
		}
		if rv := reflect.ValueOf(raw); rv.CanInt() {
			return strconv.ParseInt(strconv.FormatInt(rv.Int(), 10), 10, bits)
		}

	case KindUint:
		bits := f.Type.Bits()
		switch v := raw.(type) {
		case string:
			return strconv.ParseUint(strings.TrimSpace(v), 10, bits)
		case float64:
			if v != math.Trunc(v) || v < 0 {
				return nil, fmt.Errorf("%v is not an unsigned integer", v)
			}
			return strconv.ParseUint(strconv.FormatFloat(v, 'f', 0, 64), 10, bits)
		}
		if rv := reflect.ValueOf(raw); rv.CanUint() {
			return strconv.ParseUint(strconv.FormatUint(rv.Uint(), 10), 10, bits)
		}

	case KindFloat:
		switch v := raw.(type) {
		case string:
			return strconv.ParseFloat(strings.TrimSpace(v), f.Type.Bits())
		case float64:
			return v, nil
		}
		rv := reflect.ValueOf(raw)
		switch {
		case rv.CanInt():
			return float64(rv.Int()), nil
		case rv.CanUint():
			return float64(rv.Uint()), nil
		case rv.CanFloat():
			return rv.Float(), nil
		}

	case KindTime:
		switch v := raw.(type) {
		case time.Time:
			return v.UTC(), nil
		case string:
			return ParseTime(v)
		}

	case KindUUID:
		switch v := raw.(type) {
		case uuid.UUID:
			return v, nil
		case string:
			return uuid.Parse(strings.TrimSpace(v))
		}
	}
	return nil, fmt.Errorf("unsupported value type %T", raw)
}

// ParseTime prueba los formatos de fecha aceptados en los filtros.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Canonical normaliza un valor leído de una entidad al mismo conjunto de tipos
// que devuelve Coerce.
func Canonical(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return x.UTC()
	case uuid.UUID:
		return x
	case Char:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}
