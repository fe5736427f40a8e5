package public

import (
	"strconv"

	"github.com/slabmarket-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ListingID uint `json:"listing_id" binding:"required"`
}

// GetCart 获取购物车（活跃与稍后购买两个分区）
func (h *Handler) GetCart(c *gin.Context) {
	identity := currentIdentity(c)
	view, err := h.CartService.View(identity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	identity := currentIdentity(c)
	if err := h.CartService.AddItem(identity, req.ListingID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"added": true})
}

// RemoveCartItem 移除购物车条目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("listing_id"), 10, 64)
	if err != nil || listingID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	identity := currentIdentity(c)
	if err := h.CartService.RemoveItem(identity, uint(listingID)); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// SaveCartItemForLater 移入稍后购买
func (h *Handler) SaveCartItemForLater(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	identity := currentIdentity(c)
	if err := h.CartService.MoveToSaved(identity, req.ListingID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"saved": true})
}

// ActivateCartItem 从稍后购买移回活跃购物车
func (h *Handler) ActivateCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	identity := currentIdentity(c)
	if err := h.CartService.MoveToActive(identity, req.ListingID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"activated": true})
}

// MergeCart 登录后合并匿名会话购物车。
// 需要登录身份；会话ID来自请求头。重复调用是空操作。
func (h *Handler) MergeCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	sessionID := ""
	if value, exists := c.Get("cart_session"); exists {
		if sid, ok := value.(string); ok {
			sessionID = sid
		}
	}
	if err := h.CartService.MergeOnLogin(uid, sessionID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"merged": true})
}
