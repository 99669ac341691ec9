package application

// Page es el resultado del cálculo de paginación para un total dado.
type Page struct {
	PageCount    int
	CurrentPage  int
	ItemsPerPage int
	// ItemOffset es la posición (base 1) del primer elemento de la página, 0 si no hay elementos.
	ItemOffset int
	Skip       int
	// Take < 0 significa sin límite.
	Take int
}

// ComputePage calcula número de páginas, página actual y desplazamiento.
// La página pedida se ajusta a [1, max(pageCount, 1)]; con showAll se devuelve
// una única página con todos los elementos.
func ComputePage(itemCount int64, itemsPerPage, page int, showAll bool) Page {
	if showAll {
		return Page{
			PageCount:    1,
			CurrentPage:  1,
			ItemsPerPage: int(itemCount),
			ItemOffset:   0,
			Skip:         0,
			Take:         -1,
		}
	}

	pageCount := 0
	if itemsPerPage > 0 {
		pageCount = int((itemCount + int64(itemsPerPage) - 1) / int64(itemsPerPage))
	}
	if page > pageCount {
		page = pageCount
	}
	if page <= 0 {
		page = 1
	}

	skip := (page - 1) * itemsPerPage
	offset := skip + 1
	if itemCount == 0 || offset <= 0 {
		offset = 0
	}

	return Page{
		PageCount:    pageCount,
		CurrentPage:  page,
		ItemsPerPage: itemsPerPage,
		ItemOffset:   offset,
		Skip:         skip,
		Take:         itemsPerPage,
	}
}
