package models

import (
	"time"

	"gorm.io/gorm"
)

// Card 卡片目录表，描述一张卡的出处信息
type Card struct {
	ID         uint           `gorm:"primarykey" json:"id"`            // 主键
	Name       string         `gorm:"not null;index" json:"name"`      // 卡片名称
	SetName    string         `gorm:"default:''" json:"set_name"`      // 所属系列
	CardNumber string         `gorm:"default:''" json:"card_number"`   // 系列内编号
	Year       int            `gorm:"default:0" json:"year"`           // 发行年份
	ImageURL   string         `gorm:"default:''" json:"image_url"`     // 图片地址
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`         // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`         // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                  // 软删除时间
}

// TableName 指定表名
func (Card) TableName() string {
	return "cards"
}
