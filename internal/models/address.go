package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 买家地址簿，下单时区分收货地址与账单地址
type Address struct {
	ID         uint           `gorm:"primarykey" json:"id"`            // 主键
	UserID     uint           `gorm:"not null;index" json:"user_id"`   // 所属用户ID
	Name       string         `gorm:"not null" json:"name"`            // 收件人
	Line1      string         `gorm:"not null" json:"line1"`           // 地址行1
	Line2      string         `gorm:"default:''" json:"line2"`         // 地址行2
	City       string         `gorm:"not null" json:"city"`            // 城市
	State      string         `gorm:"default:''" json:"state"`         // 省/州
	PostalCode string         `gorm:"not null" json:"postal_code"`     // 邮编
	Country    string         `gorm:"default:'US'" json:"country"`     // 国家
	IsDefault  bool           `gorm:"default:false" json:"is_default"` // 是否默认地址
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`         // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`         // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                  // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
