package models

import (
	"time"

	"gorm.io/gorm"
)

// Grade 评级信息表，一条评级对应一家机构的一个分值
type Grade struct {
	ID        uint           `gorm:"primarykey" json:"id"`        // 主键
	Company   string         `gorm:"not null;index" json:"company"` // 评级机构（PSA/BGS/CGC 等）
	Score     string         `gorm:"not null" json:"score"`       // 分值（如 10、9.5）
	Label     string         `gorm:"default:''" json:"label"`     // 品相描述（Gem Mint 等）
	CertNo    string         `gorm:"default:''" json:"cert_no"`   // 证书编号
	CreatedAt time.Time      `gorm:"index" json:"created_at"`     // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`     // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`              // 软删除时间
}

// TableName 指定表名
func (Grade) TableName() string {
	return "grades"
}
