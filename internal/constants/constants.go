package constants

const (
	//分頁
	DefaultPagingSize int = 10
	DefaultPaging     int = 1
	MaxPagingSize     int = 100

	DefaultBestSellerLimit int = 8
	LowStockThreshold      int = 5
	MaxExternalLinks       int = 3
	RecentOrdersLimit      int = 5

	// 加密貨幣付款折扣 15%
	CryptoDiscountRate = "0.15"
)

type SortOrderEnum string

const (
	DefaultSortOrder SortOrderEnum = "desc"
	SortOrderAsc     SortOrderEnum = "asc"
	SortOrderDesc    SortOrderEnum = "desc"
)

func IsValidSortOrderEnum(order string) bool {
	switch SortOrderEnum(order) {
	case SortOrderAsc, SortOrderDesc:
		return true
	default:
		return false
	}
}

// for api auth
type ContextKey string

const (
	AuthorizationHeaderKey     ContextKey = "authorization"
	AuthorizationTypeBearer    ContextKey = "bearer"
	AuthorizationPayloadKey    ContextKey = "authorization_payload"
	AuthorizationUserAgentKey  ContextKey = "user_agent"
	AuthorizationIPKey         ContextKey = "ip_address"
	AuthorizationDeviceInfoKey ContextKey = "device_info"
)

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Stag  ENV = "staging"
	Prod  ENV = "production"
)

type RequestID string

const (
	RequestIDKey RequestID = "request_id"
)

// 角色
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// 權限動作
const (
	ActionRead  = "read"
	ActionWrite = "write"
)
