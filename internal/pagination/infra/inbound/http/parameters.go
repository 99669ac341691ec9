package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/gin-gonic/gin"
)

// ErrMalformedRequest indica que la petición no se pudo leer como Parameters.
var ErrMalformedRequest = errors.New("malformed request data")

// Defaults completa los valores que la petición no trae.
type Defaults struct {
	ItemsPerPage int
	// MaxItemsPerPage limita el tamaño de página pedido; 0 desactiva el límite.
	MaxItemsPerPage int
}

// ParseParameters lee los parámetros de paginación de la petición.
//
// En GET se leen del query string:
//
//	?page=2&itemsPerPage=20&sort=name,-age&filters=[{"fieldName":"age","operator":">","fieldValue":30}]
//
// En POST/PUT se leen del cuerpo JSON con la forma de domain.Parameters.
func ParseParameters(c *gin.Context, defaults Defaults) (domain.Parameters, error) {
	var params domain.Parameters

	if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
		if err := c.ShouldBindJSON(&params); err != nil {
			return domain.Parameters{}, malformed(err)
		}
	} else {
		var err error
		if params, err = parseQuery(c); err != nil {
			return domain.Parameters{}, malformed(err)
		}
	}

	return applyDefaults(params, defaults), nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
}

func parseQuery(c *gin.Context) (domain.Parameters, error) {
	var params domain.Parameters
	var err error

	if params.Page, err = queryInt(c, "page"); err != nil {
		return params, err
	}
	if params.ItemsPerPage, err = queryInt(c, "itemsPerPage"); err != nil {
		return params, err
	}
	if v := c.Query("showAllItems"); v != "" {
		if params.ShowAllItems, err = strconv.ParseBool(v); err != nil {
			return params, fmt.Errorf("showAllItems: %w", err)
		}
	}

	if err := queryJSON(c, "sorters", &params.Sorters); err != nil {
		return params, err
	}
	if err := queryJSON(c, "filters", &params.Filters); err != nil {
		return params, err
	}
	if err := queryJSON(c, "fullFilters", &params.FullFilters); err != nil {
		return params, err
	}

	// sort=name,-age es un atajo para sorters.
	if s := c.Query("sort"); s != "" {
		for _, key := range strings.Split(s, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			order := domain.SortAsc
			if strings.HasPrefix(key, "-") {
				order, key = domain.SortDesc, key[1:]
			}
			params.Sorters = append(params.Sorters, domain.Sorter{FieldName: key, SortOrder: order})
		}
	}

	return params, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func queryJSON(c *gin.Context, key string, dst any) error {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func applyDefaults(p domain.Parameters, d Defaults) domain.Parameters {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.ItemsPerPage == 0 {
		p.ItemsPerPage = d.ItemsPerPage
	}
	if d.MaxItemsPerPage > 0 && p.ItemsPerPage > d.MaxItemsPerPage {
		p.ItemsPerPage = d.MaxItemsPerPage
	}
	return p
}
