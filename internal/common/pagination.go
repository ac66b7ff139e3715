package common

import (
	"net/http"
	"strconv"
)

const PageSize = 10

// Page is a window over an ordered result. Previous and Next are page tokens,
// nil at either end.
type Page struct {
	Number   int  `json:"page"`
	Pages    int  `json:"num_pages"`
	Count    int  `json:"count"`
	Previous *int `json:"previous"`
	Next     *int `json:"next"`
}

// Listing is one page of results with its window fields inlined.
type Listing[T any] struct {
	Page
	Results []T `json:"results"`
}

func NewListing[T any](results []T, page Page) *Listing[T] {
	if results == nil {
		results = []T{}
	}
	return &Listing[T]{Page: page, Results: results}
}

// Window returns offset and limit for the requested page token over total rows.
// Tokens that do not parse or are below 1 give page 1; tokens past the end give
// the last page.
func Window(total int, pageSize int, token string) (Page, int, int) {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	number, err := strconv.Atoi(token)
	if err != nil || number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	p := Page{Number: number, Pages: pages, Count: total}
	if number > 1 {
		prev := number - 1
		p.Previous = &prev
	}
	if number < pages {
		next := number + 1
		p.Next = &next
	}

	offset := (number - 1) * pageSize
	limit := pageSize
	if offset+limit > total {
		limit = total - offset
	}
	if limit < 0 {
		limit = 0
	}
	return p, offset, limit
}

// Paginate slices an in-memory list the same way Window pages a query.
func Paginate[T any](list []T, pageSize int, token string) ([]T, Page) {
	p, offset, limit := Window(len(list), pageSize, token)
	return list[offset : offset+limit], p
}

func PageToken(r *http.Request) string {
	return r.URL.Query().Get("page")
}
