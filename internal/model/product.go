package model

import "time"

type Product struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Slug           string    `bson:"slug" json:"slug"`
	Description    string    `bson:"description" json:"description"`
	Price          float64   `bson:"price" json:"price"`
	CompareAtPrice float64   `bson:"compare_at_price,omitempty" json:"compare_at_price,omitempty"`
	Cost           float64   `bson:"cost,omitempty" json:"cost,omitempty"`
	SKU            string    `bson:"sku,omitempty" json:"sku,omitempty"`
	Stock          int       `bson:"stock" json:"stock"`
	Category       string    `bson:"category" json:"category"`
	Tags           []string  `bson:"tags" json:"tags"`
	Images         []string  `bson:"images" json:"images"`
	Featured       bool      `bson:"featured" json:"featured"`
	OnSale         bool      `bson:"on_sale" json:"on_sale"`
	IsNew          bool      `bson:"is_new" json:"is_new"`
	BestSeller     bool      `bson:"best_seller" json:"best_seller"`
	Active         bool      `bson:"active" json:"active"`
	SeoTitle       string    `bson:"seo_title,omitempty" json:"seo_title,omitempty"`
	SeoDescription string    `bson:"seo_description,omitempty" json:"seo_description,omitempty"`
	Rating         float64   `bson:"rating" json:"rating"`
	ReviewsCount   int       `bson:"reviews_count" json:"reviews_count"`
	ViewCount      int       `bson:"view_count" json:"view_count"`
	SalesCount     int       `bson:"sales_count" json:"sales_count"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type ProductSortField string

const (
	ProductSortCreatedAt  ProductSortField = "created_at"
	ProductSortPrice      ProductSortField = "price"
	ProductSortName       ProductSortField = "name"
	ProductSortRating     ProductSortField = "rating"
	ProductSortSalesCount ProductSortField = "sales_count"
	ProductSortViewCount  ProductSortField = "view_count"
)

func IsValidProductSortField(s string) bool {
	switch ProductSortField(s) {
	case ProductSortCreatedAt, ProductSortPrice, ProductSortName,
		ProductSortRating, ProductSortSalesCount, ProductSortViewCount:
		return true
	}
	return false
}

// ProductFilter 指標欄位為 nil 代表不篩選
type ProductFilter struct {
	Category    string
	OnSale      *bool
	IsNew       *bool
	BestSeller  *bool
	Featured    *bool
	ActiveOnly  bool
	MinPrice    *float64
	MaxPrice    *float64
	MaxStock    *int
	SortBy      ProductSortField
	SortDesc    bool
	SearchQuery string
	Paging
}

// ProductCounterDelta 原子累加計數欄位
type ProductCounterDelta struct {
	Views int
	Sales int
	Stock int
}

type Category struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
