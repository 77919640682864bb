package repository

// OrderListFilter 订单列表过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	PaymentStatus string
	OrderCode     string
}

// ThemeListFilter 主题列表过滤条件
type ThemeListFilter struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	OnlyFree   bool
}

// CatalogListFilter 通用目录列表过滤条件
type CatalogListFilter struct {
	Page     int
	PageSize int
	Search   string
}
