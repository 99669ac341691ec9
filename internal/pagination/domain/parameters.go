package domain

import (
	"fmt"
	"strings"
)

// ---------- Tipos de filtrado / paginación / ordenamiento ----------

// SortOrder indica la dirección de un Sorter.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder acepta asc/ascending/desc/descending sin distinguir mayúsculas.
// Una cadena vacía equivale a ascendente.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q", s)
	}
}

// Sorter ordena por una ruta de campo (ej. "address.city").
type Sorter struct {
	FieldName string    `json:"fieldName"`
	SortOrder SortOrder `json:"sortOrder"`
}

// Filter es un criterio sin tipar tal y como llega de la petición.
type Filter struct {
	FieldName  string `json:"fieldName"`
	Operator   string `json:"operator"`
	FieldValue any    `json:"fieldValue"`
}

// Parameters agrupa todo lo que necesita una llamada a Paginate.
// Filters se combinan con AND y FullFilters con OR.
type Parameters struct {
	Page         int      `json:"page"`
	ItemsPerPage int      `json:"itemsPerPage"`
	Sorters      []Sorter `json:"sorters"`
	Filters      []Filter `json:"filters"`
	FullFilters  []Filter `json:"fullFilters"`
	ShowAllItems bool     `json:"showAllItems"`
}

// Result es la página calculada junto con sus metadatos.
type Result[T any] struct {
	ItemCount   int64 `json:"itemCount"`
	PageCount   int   `json:"pageCount"`
	CurrentPage int   `json:"currentPage"`
	ItemOffset  int   `json:"itemOffset"`
	ItemList    []T   `json:"itemList"`
}
