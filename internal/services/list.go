package services

import (
	"math"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
	DefaultSort  = "id"
	DefaultOrder = "DESC"

	// MaxPage keeps (page-1)*limit within a 32-bit offset.
	MaxPage = math.MaxInt32 / MaxLimit
)

// ListParams are the paging and ordering inputs of a listing.
type ListParams struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

// Normalize clamps page and limit into range and fills the defaults.
// Sort and order are not allow-listed; the store rejects unknown values.
func (p ListParams) Normalize() ListParams {
	switch {
	case p.Page < 1:
		p.Page = DefaultPage
	case p.Page > MaxPage:
		p.Page = MaxPage
	}
	switch {
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	p.Sort = strings.TrimSpace(p.Sort)
	if p.Sort == "" {
		p.Sort = DefaultSort
	}
	p.Order = strings.ToUpper(strings.TrimSpace(p.Order))
	if p.Order == "" {
		p.Order = DefaultOrder
	}
	return p
}

// Offset is the number of rows before the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes a listing window.
type PageMeta struct {
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
	Sort  string `json:"sort"`
	Order string `json:"order"`
}

func newPageMeta(params ListParams, total int64) PageMeta {
	limit := int64(params.Limit)
	return PageMeta{
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
		Pages: int((total + limit - 1) / limit),
		Sort:  params.Sort,
		Order: params.Order,
	}
}
