package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 100000
)

type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Parse reads page and limit from the query string. Invalid or missing values
// fall back to the defaults; page is clamped to MaxPage and limit to MaxLimit.
func Parse(q url.Values) Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 1 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v >= 1 {
		p.Limit = v
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// Page is the list response envelope.
type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

func NewPage[T any](items []T, p Params, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Pagination: NewMeta(p, total)}
}
