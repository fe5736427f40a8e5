package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单明细表。每张评级卡唯一，ListingID 加唯一索引，
// 从数据库层面兜底同一 listing 不会进入两笔订单。
type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	OrderID   uint           `gorm:"not null;index" json:"order_id"`         // 订单ID
	ListingID uint           `gorm:"not null;uniqueIndex" json:"listing_id"` // 商品ID
	CardID    uint           `gorm:"not null" json:"card_id"`                // 卡片ID
	GradeID   uint           `gorm:"not null" json:"grade_id"`               // 评级ID
	Quantity  int            `gorm:"default:1" json:"quantity"`              // 数量，唯一卡恒为1
	Price     Money          `gorm:"type:decimal(12,2)" json:"price"`        // 成交单价
	CreatedAt time.Time      `json:"created_at"`                             // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"` // 商品快照
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
