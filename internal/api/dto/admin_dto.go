package dto

import "github.com/RoyceAzure/lab/storefront/internal/model"

type CustomerUpdateDTO struct {
	CustomerGroup *string `json:"customer_group" validate:"omitempty,oneof=regular vip wholesale"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
}

type RebuildCustomersResponse struct {
	Customers int `json:"customers"`
}

type TeamMemberDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type TeamMemberUpdateDTO struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Role     *string `json:"role"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	IsActive *bool   `json:"is_active"`
}

type TeamRolesResponse struct {
	Roles []string `json:"roles"`
}

type BulkEmailDTO struct {
	Subject    string   `json:"subject" validate:"required,max=200"`
	Content    string   `json:"content" validate:"required"`
	Recipients []string `json:"recipients" validate:"dive,email"`
	Group      string   `json:"customer_group" validate:"omitempty,oneof=regular vip wholesale"`
}

type StoreSettingsDTO struct {
	StoreName             string  `json:"store_name" validate:"required"`
	ContactEmail          string  `json:"contact_email" validate:"required,email"`
	ContactPhone          string  `json:"contact_phone"`
	Address               string  `json:"address"`
	Currency              string  `json:"currency" validate:"required,len=3"`
	StandardShippingCost  float64 `json:"standard_shipping_cost" validate:"gte=0"`
	ExpressShippingCost   float64 `json:"express_shipping_cost" validate:"gte=0"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold" validate:"gte=0"`
	LogoURL               string  `json:"logo_url" validate:"omitempty,url"`
	BankInstructions      string  `json:"bank_instructions"`
}

func (d StoreSettingsDTO) ToModel() *model.StoreSettings {
	return &model.StoreSettings{
		StoreName:             d.StoreName,
		ContactEmail:          d.ContactEmail,
		ContactPhone:          d.ContactPhone,
		Address:               d.Address,
		Currency:              d.Currency,
		StandardShippingCost:  d.StandardShippingCost,
		ExpressShippingCost:   d.ExpressShippingCost,
		FreeShippingThreshold: d.FreeShippingThreshold,
		LogoURL:               d.LogoURL,
		BankInstructions:      d.BankInstructions,
	}
}

type PaymentGatewayDTO struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
	SortOrder   *int    `json:"sort_order"`
}

type SocialLinkDTO struct {
	Platform  string `json:"platform" validate:"required,max=50"`
	URL       string `json:"url" validate:"required,url"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active"`
}

func (d SocialLinkDTO) ToModel(id string) *model.SocialLink {
	active := true
	if d.Active != nil {
		active = *d.Active
	}
	return &model.SocialLink{
		ID:        id,
		Platform:  d.Platform,
		URL:       d.URL,
		Icon:      d.Icon,
		SortOrder: d.SortOrder,
		Active:    active,
	}
}

type ExternalLinkDTO struct {
	Title     string `json:"title" validate:"required,max=100"`
	URL       string `json:"url" validate:"required,url"`
	SortOrder int    `json:"sort_order"`
}

func (d ExternalLinkDTO) ToModel(id string) *model.ExternalLink {
	return &model.ExternalLink{
		ID:        id,
		Title:     d.Title,
		URL:       d.URL,
		SortOrder: d.SortOrder,
	}
}

type FloatingAnnouncementDTO struct {
	Enabled         bool   `json:"enabled"`
	Message         string `json:"message" validate:"max=500"`
	LinkURL         string `json:"link_url" validate:"omitempty,url"`
	LinkText        string `json:"link_text"`
	BackgroundColor string `json:"background_color" validate:"omitempty,hexcolor"`
	TextColor       string `json:"text_color" validate:"omitempty,hexcolor"`
}

func (d FloatingAnnouncementDTO) ToModel() *model.FloatingAnnouncement {
	return &model.FloatingAnnouncement{
		Enabled:         d.Enabled,
		Message:         d.Message,
		LinkURL:         d.LinkURL,
		LinkText:        d.LinkText,
		BackgroundColor: d.BackgroundColor,
		TextColor:       d.TextColor,
	}
}
