package model

type DashboardStats struct {
	TotalOrders      int64   `json:"total_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalProducts    int64   `json:"total_products"`
	LowStockProducts int64   `json:"low_stock_products"`
	TotalCustomers   int64   `json:"total_customers"`
	RecentOrders     []Order `json:"recent_orders"`
}
