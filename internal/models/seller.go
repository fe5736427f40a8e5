package models

import (
	"time"

	"gorm.io/gorm"
)

// Seller 卖家表，每个卖家承载自己的运费策略
type Seller struct {
	ID            uint           `gorm:"primarykey" json:"id"`                       // 主键
	Name          string         `gorm:"uniqueIndex;not null" json:"name"`           // 卖家名称
	Email         string         `gorm:"default:''" json:"email"`                    // 联系邮箱
	ShippingPrice Money          `gorm:"type:decimal(12,2)" json:"shipping_price"`   // 单包裹固定运费
	Status        string         `gorm:"default:'active';index" json:"status"`       // 卖家状态
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                    // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (Seller) TableName() string {
	return "sellers"
}
