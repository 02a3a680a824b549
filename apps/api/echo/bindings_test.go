package echoapi_test

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
)

func newQueryContext(t *testing.T, rawQuery string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestOrdering_Bind(t *testing.T) {
	allowed := []string{"title", "created_at", "position"}

	tests := []struct {
		name  string
		query string
		want  []core.DBOrdering
	}{
		{name: "empty", query: ""},
		{
			name: "single ascending", query: "ordering=title",
			want: []core.DBOrdering{{Field: "title", Ascending: true}},
		},
		{
			name: "descending prefix", query: "ordering=-created_at",
			want: []core.DBOrdering{{Field: "created_at", Ascending: false}},
		},
		{
			name: "comma separated", query: "ordering=position,-title",
			want: []core.DBOrdering{
				{Field: "position", Ascending: true},
				{Field: "title", Ascending: false},
			},
		},
		{
			name: "unknown fields are dropped", query: "ordering=password_hash,title",
			want: []core.DBOrdering{{Field: "title", Ascending: true}},
		},
		{name: "all unknown", query: "ordering=lol,-wat"},
		{
			name: "surrounding spaces", query: "ordering=title%2C%20-position",
			want: []core.DBOrdering{
				{Field: "title", Ascending: true},
				{Field: "position", Ascending: false},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ord := new(Ordering)
			ord.Bind(newQueryContext(t, tt.query), allowed...)
			if !reflect.DeepEqual(ord.Orderings, tt.want) {
				t.Errorf("Orderings = %+v; want %+v", ord.Orderings, tt.want)
			}
		})
	}
}

func TestPagination_Bind(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{name: "defaults", query: "", wantPage: 1, wantPageSize: 20},
		{name: "explicit", query: "page=3&page_size=10", wantPage: 3, wantPageSize: 10, wantOffset: 20},
		{name: "page_size capped", query: "page_size=1000", wantPage: 1, wantPageSize: 100},
		{name: "garbage ignored", query: "page=lol&page_size=-5", wantPage: 1, wantPageSize: 20},
		{name: "zero ignored", query: "page=0&page_size=0", wantPage: 1, wantPageSize: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(Pagination)
			p.Bind(newQueryContext(t, tt.query))
			if p.Page != tt.wantPage || p.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d page_size=%d; want page=%d page_size=%d", p.Page, p.PageSize, tt.wantPage, tt.wantPageSize)
			}
			paging := p.Paging()
			if paging.Limit != tt.wantPageSize || paging.Offset != tt.wantOffset {
				t.Errorf("got limit=%d offset=%d; want limit=%d offset=%d", paging.Limit, paging.Offset, tt.wantPageSize, tt.wantOffset)
			}
		})
	}
}
