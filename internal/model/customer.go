package model

import "time"

type CustomerGroup string

const (
	CustomerGroupRegular   CustomerGroup = "regular"
	CustomerGroupVip       CustomerGroup = "vip"
	CustomerGroupWholesale CustomerGroup = "wholesale"
)

func IsValidCustomerGroup(s string) bool {
	switch CustomerGroup(s) {
	case CustomerGroupRegular, CustomerGroupVip, CustomerGroupWholesale:
		return true
	}
	return false
}

// Customer 由訂單彙總而來，以 email 為 key
type Customer struct {
	Email         string        `bson:"_id" json:"email"`
	Name          string        `bson:"name" json:"name"`
	Phone         string        `bson:"phone,omitempty" json:"phone,omitempty"`
	TotalOrders   int           `bson:"total_orders" json:"total_orders"`
	TotalSpent    float64       `bson:"total_spent" json:"total_spent"`
	LastOrderAt   *time.Time    `bson:"last_order_at,omitempty" json:"last_order_at,omitempty"`
	CustomerGroup CustomerGroup `bson:"customer_group" json:"customer_group"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

type CustomerFilter struct {
	Group  string
	Search string
	Paging
}
