package public

import (
	"github.com/slabmarket-next/internal/http/response"
	"github.com/slabmarket-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结账请求
type CheckoutRequest struct {
	ShippingAddressID uint `json:"shipping_address_id" binding:"required"`
	BillingAddressID  uint `json:"billing_address_id" binding:"required"`
}

// PreviewCheckout 结账预览：按卖家拆分包裹并计算各包裹金额，不落单
func (h *Handler) PreviewCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	plan, err := h.CheckoutService.Split(service.CheckoutInput{
		BuyerID:           uid,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, plan)
}

// CommitCheckout 提交结账：拆包后逐包裹原子成交。
// 部分包裹失败仍返回 200，结果体中逐包裹标注成败。
func (h *Handler) CommitCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input := service.CheckoutInput{
		BuyerID:           uid,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
	}
	plan, result, err := h.CheckoutService.Checkout(c.Request.Context(), input)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	if len(result.CommittedOrders) == 0 {
		respondErrorWithData(c, response.CodeConflict, "error.checkout_failed", result)
		return
	}
	response.Success(c, gin.H{
		"plan":   plan,
		"result": result,
	})
}
