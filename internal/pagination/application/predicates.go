package application

import (
	"errors"

	"github.com/davicafu/hexapager/internal/pagination/domain"
	"go.uber.org/zap"
)

// filterPredicate resuelve campo, operador y valor de un filtro.
func filterPredicate(schema *domain.Schema, f domain.Filter) (domain.Expr, error) {
	field, err := schema.Resolve(f.FieldName)
	if err != nil {
		return nil, err
	}
	op, err := domain.LookupOperator(f.Operator)
	if err != nil {
		return nil, err
	}
	return op.Predicate(field, f.FieldValue)
}

// buildRestrictions devuelve las restricciones a aplicar con Where, en orden:
// una por cada filtro ordinario (AND) y, si hay filtros de texto completo, un único
// grupo OR sembrado con false. Un valor no convertible es fatal en los filtros
// ordinarios y descarta el filtro en el grupo de texto completo.
func buildRestrictions(schema *domain.Schema, params domain.Parameters, log *zap.Logger) ([]domain.Expr, error) {
	var restrictions []domain.Expr

	for _, f := range params.Filters {
		pred, err := filterPredicate(schema, f)
		if err != nil {
			return nil, err
		}
		restrictions = append(restrictions, pred)
	}

	if len(params.FullFilters) == 0 {
		return restrictions, nil
	}

	group := domain.Or(domain.BoolConst(false))
	for _, f := range params.FullFilters {
		pred, err := filterPredicate(schema, f)
		if err != nil {
			if errors.Is(err, domain.ErrFilterValueInvalid) {
				log.Debug("Full-text filter dropped",
					zap.String("field", f.FieldName),
					zap.String("operator", f.Operator),
					zap.Error(err))
				continue
			}
			return nil, err
		}
		group.Terms = append(group.Terms, pred)
	}

	return append(restrictions, group), nil
}
