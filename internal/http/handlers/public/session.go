package public

import (
	"github.com/slabmarket-next/internal/constants"
	"github.com/slabmarket-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateCartSession 颁发匿名购物车会话ID。
// 已携带会话头时原样返回，保证幂等。
func (h *Handler) CreateCartSession(c *gin.Context) {
	sessionID := c.GetHeader(constants.CartSessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	response.Success(c, gin.H{"session_id": sessionID})
}
