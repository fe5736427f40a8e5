package constants

// 订单状态常量
const (
	OrderStatusCreated = "created"
)

// 购物车分区常量
const (
	CartSectionActive = "active"
	CartSectionSaved  = "saved_for_later"
)

// 结算默认值常量
const (
	// DefaultTaxRate 默认税率（统一平税）
	DefaultTaxRate = "0.07"
	// DefaultCommitRetries 持久化失败时同一订单号的最大重试次数
	DefaultCommitRetries = 3
	// SiteCurrencyDefault 站点默认币种
	SiteCurrencyDefault = "USD"
)

// 用户状态常量
const (
	UserStatusActive = "active"
)

// 会话常量
const (
	// CartSessionHeader 匿名购物车会话请求头
	CartSessionHeader = "X-Cart-Session"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderConfirmation  = "order:confirmation"
	TaskReservationRelease = "listing:reservation_release"
)
