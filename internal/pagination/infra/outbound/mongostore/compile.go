package mongostore

import (
	"fmt"
	"regexp"

	"github.com/davicafu/hexapager/internal/pagination/domain"
	"go.mongodb.org/mongo-driver/bson"
)

var compareOps = map[domain.CompareOp]string{
	domain.CmpEq:  "$eq",
	domain.CmpNe:  "$ne",
	domain.CmpGt:  "$gt",
	domain.CmpGte: "$gte",
	domain.CmpLt:  "$lt",
	domain.CmpLte: "$lte",
}

var dateParts = map[domain.DatePart]string{
	domain.PartDay:   "$dayOfMonth",
	domain.PartMonth: "$month",
	domain.PartYear:  "$year",
}

// compile traduce una expresión a un operador de agregación, evaluable dentro de $expr.
func compile(e domain.Expr) (any, error) {
	switch n := e.(type) {
	case domain.FieldRef:
		return "$" + n.Field.DocPath, nil

	case domain.Literal:
		// $literal evita que un texto que empiece por "$" se lea como ruta.
		return bson.M{"$literal": domain.Canonical(n.Value)}, nil

	case domain.BoolConst:
		return bool(n), nil

	case domain.Logical:
		terms := bson.A{}
		for _, t := range n.Terms {
			c, err := compile(t)
			if err != nil {
				return nil, err
			}
			terms = append(terms, c)
		}
		if len(terms) == 0 {
			return n.Op == domain.OpAnd, nil
		}
		if n.Op == domain.OpOr {
			return bson.M{"$or": terms}, nil
		}
		return bson.M{"$and": terms}, nil

	case domain.Comparison:
		return compileComparison(n)

	case domain.DatePartOf:
		arg, err := compile(n.Arg)
		if err != nil {
			return nil, err
		}
		return bson.M{dateParts[n.Part]: arg}, nil

	case domain.ToDecimal:
		arg, err := compile(n.Arg)
		if err != nil {
			return nil, err
		}
		return bson.M{"$toDecimal": arg}, nil

	case domain.StringConvert:
		// Sin relleno a la izquierda: el texto solo se usa para buscar subcadenas o se recorta después.
		arg, err := compile(n.Arg)
		if err != nil {
			return nil, err
		}
		return bson.M{"$toString": roundHalfAwayFromZero(arg)}, nil

	case domain.Trim:
		arg, err := compile(n.Arg)
		if err != nil {
			return nil, err
		}
		return bson.M{"$trim": bson.M{"input": arg}}, nil

	case domain.Concat:
		parts := bson.A{}
		for _, p := range n.Parts {
			c, err := compile(p)
			if err != nil {
				return nil, err
			}
			parts = append(parts, c)
		}
		return bson.M{"$concat": parts}, nil

	case domain.Right:
		arg, err := compile(n.Arg)
		if err != nil {
			return nil, err
		}
		start := bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{bson.M{"$strLenCP": arg}, n.Length}}}}
		return bson.M{"$substrCP": bson.A{arg, start, n.Length}}, nil
	}
	return nil, fmt.Errorf("mongostore: unsupported expression %T", e)
}

// roundHalfAwayFromZero redondea a entero como SQL: 12.5 es 13 y -12.5 es -13.
// $round redondea las mitades al par.
func roundHalfAwayFromZero(arg any) bson.M {
	sign := bson.M{"$cond": bson.A{bson.M{"$lt": bson.A{arg, 0}}, -1, 1}}
	magnitude := bson.M{"$trunc": bson.A{bson.M{"$add": bson.A{bson.M{"$abs": arg}, 0.5}}, 0}}
	return bson.M{"$multiply": bson.A{sign, magnitude}}
}

func compileComparison(n domain.Comparison) (any, error) {
	left, err := compile(n.Left)
	if err != nil {
		return nil, err
	}

	if n.Op == domain.CmpContains {
		lit, ok := n.Right.(domain.Literal)
		if !ok {
			return nil, fmt.Errorf("mongostore: contains needs a literal operand, got %T", n.Right)
		}
		needle := fmt.Sprint(domain.Canonical(lit.Value))
		return bson.M{"$regexMatch": bson.M{
			"input":   left,
			"regex":   regexp.QuoteMeta(needle),
			"options": "i",
		}}, nil
	}

	right, err := compile(n.Right)
	if err != nil {
		return nil, err
	}
	op, ok := compareOps[n.Op]
	if !ok {
		return nil, fmt.Errorf("mongostore: unsupported comparison %v", n.Op)
	}
	return bson.M{op: bson.A{left, right}}, nil
}

// filter construye el filtro de find/countDocuments a partir de los predicados (AND).
func filter(preds []domain.Expr) (bson.M, error) {
	if len(preds) == 0 {
		return bson.M{}, nil
	}
	terms := bson.A{}
	for _, p := range preds {
		c, err := compile(p)
		if err != nil {
			return nil, err
		}
		terms = append(terms, c)
	}
	if len(terms) == 1 {
		return bson.M{"$expr": terms[0]}, nil
	}
	return bson.M{"$expr": bson.M{"$and": terms}}, nil
}
