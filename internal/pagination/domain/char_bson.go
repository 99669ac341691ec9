package domain

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// MarshalBSONValue guarda el carácter como string, igual que en SQL,
// para que las comparaciones de $expr vean el mismo tipo que el literal.
func (c Char) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if c == 0 {
		return bson.MarshalValue("")
	}
	return bson.MarshalValue(c.String())
}

// UnmarshalBSONValue acepta string (formato propio) o enteros heredados.
func (c *Char) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		return c.fromString(raw.StringValue())
	case bsontype.Int32:
		*c = Char(rune(raw.Int32()))
	case bsontype.Int64:
		*c = Char(rune(raw.Int64()))
	case bsontype.Null, bsontype.Undefined:
		*c = 0
	default:
		return fmt.Errorf("cannot decode bson %s into Char", t)
	}
	return nil
}
