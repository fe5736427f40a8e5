package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表。一次结账按卖家拆成多个包裹，
// 每个包裹提交成功后落为一条订单，OrderNo 全局唯一。
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`                     // 主键
	OrderNo           string         `gorm:"uniqueIndex;not null" json:"order_no"`     // 订单号
	BuyerID           uint           `gorm:"not null;index" json:"buyer_id"`           // 买家ID
	SellerID          uint           `gorm:"not null;index" json:"seller_id"`          // 卖家ID
	ShippingAddressID uint           `gorm:"not null" json:"shipping_address_id"`      // 收货地址ID
	BillingAddressID  uint           `gorm:"not null" json:"billing_address_id"`       // 账单地址ID
	Subtotal          Money          `gorm:"type:decimal(12,2)" json:"subtotal"`       // 商品小计
	ShippingPrice     Money          `gorm:"type:decimal(12,2)" json:"shipping_price"` // 运费
	TaxAmount         Money          `gorm:"type:decimal(12,2)" json:"tax_amount"`     // 税额
	TotalAmount       Money          `gorm:"type:decimal(12,2)" json:"total_amount"`   // 订单总额
	Currency          string         `gorm:"default:'USD'" json:"currency"`            // 币种
	Status            string         `gorm:"default:'created';index" json:"status"`    // 订单状态
	OrderDate         time.Time      `gorm:"index" json:"order_date"`                  // 下单时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                  // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
