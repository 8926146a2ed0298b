package dto

import "github.com/RoyceAzure/lab/storefront/internal/model"

// ProductDTO 後台新增/修改商品，計數欄位(瀏覽、銷量、評分)不開放寫入
type ProductDTO struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Slug           string   `json:"slug" validate:"omitempty,max=200"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" validate:"gte=0"`
	CompareAtPrice float64  `json:"compare_at_price" validate:"gte=0"`
	Cost           float64  `json:"cost" validate:"gte=0"`
	SKU            string   `json:"sku"`
	Stock          int      `json:"stock" validate:"gte=0"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	Images         []string `json:"images" validate:"dive,url"`
	Featured       bool     `json:"featured"`
	OnSale         bool     `json:"on_sale"`
	IsNew          bool     `json:"is_new"`
	BestSeller     bool     `json:"best_seller"`
	Active         *bool    `json:"active"`
	SeoTitle       string   `json:"seo_title"`
	SeoDescription string   `json:"seo_description"`
}

// ToModel active 未帶時預設上架
func (d ProductDTO) ToModel(id string) *model.Product {
	active := true
	if d.Active != nil {
		active = *d.Active
	}
	return &model.Product{
		ID:             id,
		Name:           d.Name,
		Slug:           d.Slug,
		Description:    d.Description,
		Price:          d.Price,
		CompareAtPrice: d.CompareAtPrice,
		Cost:           d.Cost,
		SKU:            d.SKU,
		Stock:          d.Stock,
		Category:       d.Category,
		Tags:           d.Tags,
		Images:         d.Images,
		Featured:       d.Featured,
		OnSale:         d.OnSale,
		IsNew:          d.IsNew,
		BestSeller:     d.BestSeller,
		Active:         active,
		SeoTitle:       d.SeoTitle,
		SeoDescription: d.SeoDescription,
	}
}

type CategoryDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,url"`
	SortOrder   int    `json:"sort_order"`
}

func (d CategoryDTO) ToModel(id string) *model.Category {
	return &model.Category{
		ID:          id,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Image:       d.Image,
		SortOrder:   d.SortOrder,
	}
}
