package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ---------------- Operadores ----------------

// OperatorKind enumera los operadores soportados.
type OperatorKind int

const (
	OpEqual OperatorKind = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterOrEqual
	OpLessThan
	OpLessOrEqual
	OpContains
)

// RewriteRule indica cómo se reescribe un "contiene" según el tipo del campo.
type RewriteRule int

const (
	RewriteNone RewriteRule = iota
	// RewriteEquality sustituye la subcadena por igualdad exacta.
	RewriteEquality
	// RewriteDateText compara contra la fecha renderizada como dd/mm/yyyy en el store.
	RewriteDateText
	// RewriteNumericText compara contra el número renderizado como texto de ancho fijo.
	RewriteNumericText
)

// NumericTextWidth es el ancho del texto al que se convierten los números.
const NumericTextWidth = 20

// Operator es una entrada inmutable del registro.
type Operator struct {
	Kind     OperatorKind
	Symbol   string
	compare  CompareOp
	rewrites map[Kind]RewriteRule
}

// Build construye el predicado a partir del campo y del valor ya convertidos.
func (op Operator) Build(field, value Expr) Expr {
	return Comparison{Op: op.compare, Left: field, Right: value}
}

// RewriteFor devuelve la regla de reescritura que aplica a un tipo de campo.
func (op Operator) RewriteFor(k Kind) RewriteRule {
	return op.rewrites[k]
}

// Predicate convierte raw al tipo del campo, aplica la reescritura y construye el predicado.
// Un fallo de conversión cumple errors.Is(err, ErrFilterValueInvalid).
func (op Operator) Predicate(f *Field, raw any) (Expr, error) {
	if !f.Kind.Filterable() {
		return nil, fieldError(ErrUnsupportedFieldType, f.Path)
	}

	switch op.RewriteFor(f.Kind) {
	case RewriteEquality:
		return registry[symbolEqual].Predicate(f, raw)

	case RewriteDateText:
		literal, err := dateLiteral(f, raw)
		if err != nil {
			return nil, err
		}
		return op.Build(DateText(FieldRef{Field: f}), Literal{Value: literal}), nil

	case RewriteNumericText:
		v, err := Coerce(f, raw)
		if err != nil {
			return nil, err
		}
		field := StringConvert{Arg: ToDecimal{Arg: FieldRef{Field: f}}, Length: NumericTextWidth}
		return op.Build(field, Literal{Value: numberText(v)}), nil
	}

	v, err := Coerce(f, raw)
	if err != nil {
		return nil, err
	}
	return op.Build(FieldRef{Field: f}, Literal{Value: v}), nil
}

// DateText renderiza una fecha como dd/mm/yyyy con primitivas evaluables en el store:
// cada parte se convierte a texto, se rellena con ceros por la izquierda y se recorta por la derecha.
func DateText(date Expr) Expr {
	return Concat{Parts: []Expr{
		padded(PartDay, date, 2),
		Literal{Value: "/"},
		padded(PartMonth, date, 2),
		Literal{Value: "/"},
		padded(PartYear, date, 4),
	}}
}

func padded(part DatePart, date Expr, width int) Expr {
	text := Trim{Arg: StringConvert{Arg: ToDecimal{Arg: DatePartOf{Part: part, Arg: date}}, Length: width}}
	zeros := Literal{Value: strings.Repeat("0", width-1)}
	return Right{Arg: Concat{Parts: []Expr{zeros, text}}, Length: width}
}

// dateLiteral acepta una fecha completa (se normaliza a dd/mm/yyyy) o un fragmento
// como "/03/" que se busca tal cual.
func dateLiteral(f *Field, raw any) (string, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(DateLayout), nil
	case string:
		if t, err := ParseTime(v); err == nil {
			return t.Format(DateLayout), nil
		}
		return v, nil
	}
	v, err := Coerce(f, raw)
	if err != nil {
		return "", err
	}
	return v.(time.Time).Format(DateLayout), nil
}

func numberText(v any) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// ---------------- Registro ----------------

const (
	symbolEqual           = "=="
	symbolNotEqual        = "!="
	symbolGreater         = ">"
	symbolGreaterOrEqual  = ">="
	symbolLess            = "<"
	symbolLessOrEqual     = "<="
	symbolLike            = "~"
	symbolLikeAlternative = "like"
)

var containsRewrites = map[Kind]RewriteRule{
	KindBool:  RewriteEquality,
	KindChar:  RewriteEquality,
	KindUUID:  RewriteEquality,
	KindTime:  RewriteDateText,
	KindInt:   RewriteNumericText,
	KindUint:  RewriteNumericText,
	KindFloat: RewriteNumericText,
}

// registry se construye una sola vez y no se modifica.
var registry = map[string]Operator{
	symbolEqual:           {Kind: OpEqual, Symbol: symbolEqual, compare: CmpEq},
	symbolNotEqual:        {Kind: OpNotEqual, Symbol: symbolNotEqual, compare: CmpNe},
	symbolGreater:         {Kind: OpGreaterThan, Symbol: symbolGreater, compare: CmpGt},
	symbolGreaterOrEqual:  {Kind: OpGreaterOrEqual, Symbol: symbolGreaterOrEqual, compare: CmpGte},
	symbolLess:            {Kind: OpLessThan, Symbol: symbolLess, compare: CmpLt},
	symbolLessOrEqual:     {Kind: OpLessOrEqual, Symbol: symbolLessOrEqual, compare: CmpLte},
	symbolLike:            {Kind: OpContains, Symbol: symbolLike, compare: CmpContains, rewrites: containsRewrites},
	symbolLikeAlternative: {Kind: OpContains, Symbol: symbolLikeAlternative, compare: CmpContains, rewrites: containsRewrites},
}

// LookupOperator busca un operador por su símbolo.
func LookupOperator(symbol string) (Operator, error) {
	op, ok := registry[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return Operator{}, fmt.Errorf("%w: %q", ErrUnknownOperator, symbol)
	}
	return op, nil
}
