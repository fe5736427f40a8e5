package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing 在售商品表。一条 listing 对应一张唯一评级卡，
// Sold 标志是售出预留的唯一真相来源。
type Listing struct {
	ID        uint           `gorm:"primarykey" json:"id"`                 // 主键
	SellerID  uint           `gorm:"not null;index" json:"seller_id"`      // 卖家ID
	CardID    uint           `gorm:"not null;index" json:"card_id"`        // 卡片ID
	GradeID   uint           `gorm:"not null;index" json:"grade_id"`       // 评级ID
	Price     Money          `gorm:"type:decimal(12,2)" json:"price"`      // 售价
	Sold      bool           `gorm:"default:false;index" json:"sold"`      // 是否已售出
	OrderNo   string         `gorm:"default:'';index" json:"order_no"`     // 占用该listing的订单号
	SoldAt    *time.Time     `json:"sold_at"`                              // 售出时间
	CreatedAt time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间

	Seller *Seller `gorm:"foreignKey:SellerID" json:"seller,omitempty"` // 卖家信息
	Card   *Card   `gorm:"foreignKey:CardID" json:"card,omitempty"`     // 卡片信息
	Grade  *Grade  `gorm:"foreignKey:GradeID" json:"grade,omitempty"`   // 评级信息
}

// TableName 指定表名
func (Listing) TableName() string {
	return "listings"
}
