package memory

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/google/uuid"
)

// eval evalúa una expresión contra una entidad. Los valores son los canónicos de
// domain.Canonical; nil representa NULL.
func eval(e domain.Expr, entity reflect.Value) (any, error) {
	switch n := e.(type) {
	case domain.FieldRef:
		v, ok := n.Field.Value(entity)
		if !ok {
			return nil, nil
		}
		return domain.Canonical(v), nil

	case domain.Literal:
		return domain.Canonical(n.Value), nil

	case domain.BoolConst:
		return bool(n), nil

	case domain.Logical:
		return evalLogical(n, entity)

	case domain.Comparison:
		l, err := eval(n.Left, entity)
		if err != nil {
			return nil, err
		}
		r, err := eval(n.Right, entity)
		if err != nil {
			return nil, err
		}
		// Como en SQL, cualquier comparación con NULL es falsa.
		if l == nil || r == nil {
			return false, nil
		}
		if n.Op == domain.CmpContains {
			return strings.Contains(strings.ToLower(text(l)), strings.ToLower(text(r))), nil
		}
		c, err := compare(l, r)
		if err != nil {
			return nil, err
		}
		return applyCompare(n.Op, c), nil

	case domain.DatePartOf:
		v, err := eval(n.Arg, entity)
		if err != nil || v == nil {
			return nil, err
		}
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("date part of %T", v)
		}
		// Igual que los stores: día, mes y año en UTC.
		t = t.UTC()
		switch n.Part {
		case domain.PartDay:
			return int64(t.Day()), nil
		case domain.PartMonth:
			return int64(t.Month()), nil
		default:
			return int64(t.Year()), nil
		}

	case domain.ToDecimal:
		v, err := eval(n.Arg, entity)
		if err != nil || v == nil {
			return nil, err
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("cannot convert %T to decimal", v)
		}
		return f, nil

	case domain.StringConvert:
		v, err := eval(n.Arg, entity)
		if err != nil || v == nil {
			return nil, err
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("cannot convert %T to text", v)
		}
		return strConvert(f, n.Length), nil

	case domain.Trim:
		v, err := eval(n.Arg, entity)
		if err != nil || v == nil {
			return nil, err
		}
		return strings.TrimSpace(text(v)), nil

	case domain.Concat:
		var b strings.Builder
		for _, p := range n.Parts {
			v, err := eval(p, entity)
			if err != nil || v == nil {
				return nil, err
			}
			b.WriteString(text(v))
		}
		return b.String(), nil

	case domain.Right:
		v, err := eval(n.Arg, entity)
		if err != nil || v == nil {
			return nil, err
		}
		s := text(v)
		if count := utf8.RuneCountInString(s); count > n.Length {
			s = string([]rune(s)[count-n.Length:])
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported expression %T", e)
}

func evalLogical(n domain.Logical, entity reflect.Value) (any, error) {
	for _, term := range n.Terms {
		v, err := eval(term, entity)
		if err != nil {
			return nil, err
		}
		b, _ := v.(bool)
		if n.Op == domain.OpOr && b {
			return true, nil
		}
		if n.Op == domain.OpAnd && !b {
			return false, nil
		}
	}
	return n.Op == domain.OpAnd, nil
}

func applyCompare(op domain.CompareOp, c int) bool {
	switch op {
	case domain.CmpEq:
		return c == 0
	case domain.CmpNe:
		return c != 0
	case domain.CmpGt:
		return c > 0
	case domain.CmpGte:
		return c >= 0
	case domain.CmpLt:
		return c < 0
	case domain.CmpLte:
		return c <= 0
	}
	return false
}

// compare ordena dos valores canónicos del mismo tipo.
func compare(a, b any) (int, error) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			default:
				return 1, nil
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), nil
		}
	case uuid.UUID:
		if y, ok := b.(uuid.UUID); ok {
			return bytes.Compare(x[:], y[:]), nil
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, y), nil
		}
	}
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return cmpOrdered(fa, fb), nil
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}

func cmpOrdered[N int64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(domain.DateLayout)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// strConvert imita STR(x, n): redondea a entero y alinea a la derecha; si no cabe, n asteriscos.
func strConvert(f float64, length int) string {
	s := strconv.FormatFloat(math.Round(f), 'f', 0, 64)
	if len(s) > length {
		return strings.Repeat("*", length)
	}
	return strings.Repeat(" ", length-len(s)) + s
}
