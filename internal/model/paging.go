package model

import "github.com/RoyceAzure/lab/storefront/internal/constants"

// Paging Limit <= 0 代表不分頁
type Paging struct {
	Page  int
	Limit int
}

func NewPaging(page, limit int) Paging {
	if page < 1 {
		page = constants.DefaultPaging
	}
	if limit < 1 {
		limit = constants.DefaultPagingSize
	}
	if limit > constants.MaxPagingSize {
		limit = constants.MaxPagingSize
	}
	return Paging{Page: page, Limit: limit}
}

func (p Paging) Skip() int {
	if p.Limit <= 0 || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
