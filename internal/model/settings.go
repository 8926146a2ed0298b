package model

import "time"

const (
	StoreSettingsID        = "store"
	FloatingAnnouncementID = "floating"
)

type StoreSettings struct {
	ID                    string    `bson:"_id" json:"-"`
	StoreName             string    `bson:"store_name" json:"store_name"`
	ContactEmail          string    `bson:"contact_email" json:"contact_email"`
	ContactPhone          string    `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Address               string    `bson:"address,omitempty" json:"address,omitempty"`
	Currency              string    `bson:"currency" json:"currency"`
	StandardShippingCost  float64   `bson:"standard_shipping_cost" json:"standard_shipping_cost"`
	ExpressShippingCost   float64   `bson:"express_shipping_cost" json:"express_shipping_cost"`
	FreeShippingThreshold float64   `bson:"free_shipping_threshold" json:"free_shipping_threshold"`
	LogoURL               string    `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	BankInstructions      string    `bson:"bank_instructions,omitempty" json:"bank_instructions,omitempty"`
	UpdatedAt             time.Time `bson:"updated_at" json:"updated_at"`
}

func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		ID:                    StoreSettingsID,
		StoreName:             "Storefront",
		ContactEmail:          "support@storefront.local",
		Currency:              "USD",
		StandardShippingCost:  5.99,
		ExpressShippingCost:   14.99,
		FreeShippingThreshold: 100,
		BankInstructions:      "Please transfer the order total and include your order number as the reference.",
	}
}

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// PaymentGatewayConfig 後台可開關的付款方式，憑證仍由環境變數提供
type PaymentGatewayConfig struct {
	ID          string    `bson:"_id" json:"id"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Enabled     bool      `bson:"enabled" json:"enabled"`
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type SocialLink struct {
	ID        string    `bson:"_id" json:"id"`
	Platform  string    `bson:"platform" json:"platform"`
	URL       string    `bson:"url" json:"url"`
	Icon      string    `bson:"icon,omitempty" json:"icon,omitempty"`
	SortOrder int       `bson:"sort_order" json:"sort_order"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type ExternalLink struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	URL       string    `bson:"url" json:"url"`
	SortOrder int       `bson:"sort_order" json:"sort_order"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type FloatingAnnouncement struct {
	ID              string    `bson:"_id" json:"-"`
	Enabled         bool      `bson:"enabled" json:"enabled"`
	Message         string    `bson:"message" json:"message"`
	LinkURL         string    `bson:"link_url,omitempty" json:"link_url,omitempty"`
	LinkText        string    `bson:"link_text,omitempty" json:"link_text,omitempty"`
	BackgroundColor string    `bson:"background_color,omitempty" json:"background_color,omitempty"`
	TextColor       string    `bson:"text_color,omitempty" json:"text_color,omitempty"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
