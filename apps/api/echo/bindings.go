package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core"
)

var (
	orderingParam = "ordering"
	pageParam     = "page"
	pageSizeParam = "page_size"

	defaultPageSize = 20
	maxPageSize     = 100
)

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind parses the "ordering" query param ("-" prefix for DESC, comma-separated).
// Fields not in allowed are dropped.
func (ord *Ordering) Bind(ctx echo.Context, allowed ...string) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if !fieldAllowed(field, allowed) {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

func fieldAllowed(field string, allowed []string) bool {
	for _, a := range allowed {
		if a == field {
			return true
		}
	}
	return false
}

// Pagination binds the "page" & "page_size" query params (both 1-based,
// page_size capped at maxPageSize).
type Pagination struct {
	Page     int
	PageSize int
}

func (p *Pagination) Bind(ctx echo.Context) {
	p.Page = 1
	p.PageSize = defaultPageSize

	if page, err := strconv.Atoi(ctx.QueryParam(pageParam)); err == nil && page > 0 {
		p.Page = page
	}
	if size, err := strconv.Atoi(ctx.QueryParam(pageSizeParam)); err == nil && size > 0 {
		if size > maxPageSize {
			size = maxPageSize
		}
		p.PageSize = size
	}
}

func (p *Pagination) Paging() *core.DBPaging {
	return &core.DBPaging{
		Limit:  p.PageSize,
		Offset: (p.Page - 1) * p.PageSize,
	}
}

// PagedResponse is the list envelope returned by all query endpoints.
type PagedResponse struct {
	Count    int         `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

func newPagedResponse(p *Pagination, count int, results interface{}) *PagedResponse {
	return &PagedResponse{
		Count:    count,
		Page:     p.Page,
		PageSize: p.PageSize,
		Results:  results,
	}
}
