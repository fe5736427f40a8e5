package public

import (
	"strings"

	handlershared "github.com/slabmarket-next/internal/http/handlers/shared"
	"github.com/slabmarket-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithData(c *gin.Context, code int, key string, data interface{}) {
	handlershared.RespondErrorWithData(c, code, key, data)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// currentIdentity 解析购物车身份：登录用户优先，其次匿名会话。
// 两者都没有时返回无效身份，由调用方响应错误。
func currentIdentity(c *gin.Context) service.CartIdentity {
	if value, ok := c.Get("user_id"); ok {
		if uid, ok := value.(uint); ok && uid > 0 {
			return service.ResolveIdentity(uid, "")
		}
	}
	sessionID := ""
	if value, ok := c.Get("cart_session"); ok {
		if sid, ok := value.(string); ok {
			sessionID = strings.TrimSpace(sid)
		}
	}
	return service.ResolveIdentity(0, sessionID)
}
