package models

import (
	"time"
)

// CartItem 购物车条目表。身份由 (UserID, SessionID) 二选一承载：
// 匿名购物车 UserID=0、SessionID 非空；登录购物车反之。
// 唯一索引保证同一身份下同一 listing 至多出现一次（集合语义）。
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                      // 主键
	UserID    uint           `gorm:"default:0;uniqueIndex:idx_cart_identity_listing" json:"user_id"`        // 用户ID，匿名为0
	SessionID string         `gorm:"default:'';uniqueIndex:idx_cart_identity_listing" json:"session_id"`    // 匿名会话ID
	ListingID uint           `gorm:"not null;uniqueIndex:idx_cart_identity_listing" json:"listing_id"`      // 商品ID
	Saved     bool           `gorm:"default:false;index" json:"saved"` // 是否移入"稍后购买"
	AddedAt   time.Time      `gorm:"index" json:"added_at"`            // 加入时间
	CreatedAt time.Time      `json:"created_at"`                       // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                       // 更新时间

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"` // 商品信息
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
