package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Char es un campo de un único carácter. Se guarda como texto de una runa.
type Char rune

func (c Char) String() string { return string(rune(c)) }

// Value implementa driver.Valuer.
func (c Char) Value() (driver.Value, error) {
	if c == 0 {
		return "", nil
	}
	return c.String(), nil
}

// Scan implementa sql.Scanner.
func (c *Char) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = 0
	case string:
		return c.fromString(v)
	case []byte:
		return c.fromString(string(v))
	case int64:
		*c = Char(rune(v))
	default:
		return fmt.Errorf("cannot scan %T into Char", src)
	}
	return nil
}

func (c *Char) fromString(s string) error {
	if s == "" {
		*c = 0
		return nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return fmt.Errorf("cannot scan %q into Char", s)
	}
	*c = Char(r)
	return nil
}

// MarshalJSON serializa el carácter como string de una runa ("" si está vacío).
func (c Char) MarshalJSON() ([]byte, error) {
	if c == 0 {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON acepta un string de una runa o un número.
func (c *Char) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return c.fromString(s)
	}
	var n int32
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cannot decode %s into Char", data)
	}
	*c = Char(n)
	return nil
}
