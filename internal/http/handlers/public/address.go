package public

import (
	"strconv"

	"github.com/slabmarket-next/internal/http/response"
	"github.com/slabmarket-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址创建请求
type AddressRequest struct {
	Name       string `json:"name" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// ListAddresses 地址簿列表
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新增收货地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	address, err := h.AddressService.Create(uid, service.AddressInput{
		Name:       req.Name,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除收货地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AddressService.Delete(uid, uint(rawID)); err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
