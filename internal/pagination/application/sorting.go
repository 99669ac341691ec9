package application

import (
	"fmt"

	"github.com/davicafu/hexapager/internal/pagination/domain"
)

// buildOrder resuelve los sorters en claves de ordenación, en el orden recibido.
// El primero es la clave principal y los siguientes desempatan.
// Solo se ordena por hojas: un registro relacionado o una colección no tienen columna.
func buildOrder(schema *domain.Schema, sorters []domain.Sorter) ([]domain.OrderKey, error) {
	keys := make([]domain.OrderKey, 0, len(sorters))
	for _, s := range sorters {
		field, err := schema.Resolve(s.FieldName)
		if err != nil {
			return nil, err
		}
		if !field.Kind.Filterable() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFieldType, s.FieldName)
		}
		order, err := domain.ParseSortOrder(string(s.SortOrder))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPagination, err)
		}
		keys = append(keys, domain.OrderKey{Field: field, Descending: order == domain.SortDesc})
	}
	return keys, nil
}
