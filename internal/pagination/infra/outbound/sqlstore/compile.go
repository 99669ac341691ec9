package sqlstore

import (
	"fmt"
	"strings"

	"github.com/davicafu/hexapager/internal/pagination/domain"
)

// compiler traduce el árbol de expresiones a SQL con argumentos enlazados.
// Los literales nunca se interpolan en el texto de la consulta.
type compiler struct {
	dialect Dialect
	args    []any
}

func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return c.dialect.Placeholder(len(c.args), v)
}

func (c *compiler) compile(e domain.Expr) (string, error) {
	switch n := e.(type) {
	case domain.FieldRef:
		return c.dialect.Quote(n.Field.Column), nil

	case domain.Literal:
		return c.bind(bindValue(c.dialect, n.Value)), nil

	case domain.BoolConst:
		if n {
			return "1 = 1", nil
		}
		return "1 = 0", nil

	case domain.Logical:
		return c.logical(n)

	case domain.Comparison:
		l, err := c.compile(n.Left)
		if err != nil {
			return "", err
		}
		r, err := c.compile(n.Right)
		if err != nil {
			return "", err
		}
		if n.Op == domain.CmpContains {
			return c.dialect.Contains(l, r), nil
		}
		return l + " " + n.Op.String() + " " + r, nil

	case domain.DatePartOf:
		arg, err := c.compile(n.Arg)
		if err != nil {
			return "", err
		}
		return c.dialect.DatePart(n.Part, arg), nil

	case domain.ToDecimal:
		arg, err := c.compile(n.Arg)
		if err != nil {
			return "", err
		}
		return c.dialect.ToDecimal(arg), nil

	case domain.StringConvert:
		arg, err := c.compile(n.Arg)
		if err != nil {
			return "", err
		}
		return c.dialect.StringConvert(arg, n.Length), nil

	case domain.Trim:
		arg, err := c.compile(n.Arg)
		if err != nil {
			return "", err
		}
		return c.dialect.Trim(arg), nil

	case domain.Concat:
		parts := make([]string, 0, len(n.Parts))
		for _, p := range n.Parts {
			s, err := c.compile(p)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return c.dialect.Concat(parts), nil

	case domain.Right:
		arg, err := c.compile(n.Arg)
		if err != nil {
			return "", err
		}
		return c.dialect.Right(arg, n.Length), nil
	}
	return "", fmt.Errorf("sqlstore: unsupported expression %T", e)
}

func (c *compiler) logical(n domain.Logical) (string, error) {
	if len(n.Terms) == 0 {
		if n.Op == domain.OpAnd {
			return "1 = 1", nil
		}
		return "1 = 0", nil
	}
	sep := " AND "
	if n.Op == domain.OpOr {
		sep = " OR "
	}
	terms := make([]string, 0, len(n.Terms))
	for _, t := range n.Terms {
		s, err := c.compile(t)
		if err != nil {
			return "", err
		}
		terms = append(terms, s)
	}
	return "(" + strings.Join(terms, sep) + ")", nil
}

// where une los predicados con AND. Devuelve "" si no hay ninguno.
func (c *compiler) where(preds []domain.Expr) (string, error) {
	if len(preds) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(preds))
	for _, p := range preds {
		s, err := c.compile(p)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, s)
	}
	return " WHERE " + strings.Join(clauses, " AND "), nil
}
