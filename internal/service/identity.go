package service

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CartIdentity 购物车身份。UserID 与 SessionID 恰有一个生效，
// 登录身份优先于匿名会话。
type CartIdentity struct {
	UserID    uint
	SessionID string
}

// IsAnonymous 是否匿名身份
func (id CartIdentity) IsAnonymous() bool {
	return id.UserID == 0
}

// Valid 身份是否可用
func (id CartIdentity) Valid() bool {
	return id.UserID > 0 || strings.TrimSpace(id.SessionID) != ""
}

// ResolveIdentity 归一化身份：登录用户忽略会话ID
func ResolveIdentity(userID uint, sessionID string) CartIdentity {
	if userID > 0 {
		return CartIdentity{UserID: userID}
	}
	return CartIdentity{SessionID: strings.TrimSpace(sessionID)}
}

// UserClaims 买家令牌声明
type UserClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}
