package public

import (
	"strconv"
	"strings"

	"github.com/slabmarket-next/internal/http/handlers/shared"
	"github.com/slabmarket-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListOrders 买家订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)
	status := strings.TrimSpace(c.Query("status"))

	orders, total, err := h.OrderService.ListByBuyer(uid, status, page, pageSize)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 按订单号查询买家自己的订单
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.GetByOrderNo(uid, orderNo)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}
