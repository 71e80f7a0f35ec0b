package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo/portal/core"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Pagination struct {
	Page  int
	Limit int
	Name  string
}

func (p *Pagination) Bind(ctx echo.Context) {
	p.Page, p.Limit = 1, defaultPageSize
	if page, err := strconv.Atoi(ctx.QueryParam("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil && limit > 0 {
		p.Limit = limit
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	p.Name = core.CleanString(ctx.QueryParam("name"))
}

// bounds returns the slice bounds of the page within total items.
func (p Pagination) bounds(total int) (int, int) {
	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}
