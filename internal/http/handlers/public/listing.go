package public

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slabmarket-next/internal/cache"
	"github.com/slabmarket-next/internal/http/handlers/shared"
	"github.com/slabmarket-next/internal/http/response"
	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	listingDetailCacheKey = "listing:detail:%d"
	listingDetailCacheTTL = 60 * time.Second
)

// ListListings 商品列表，支持卖家、卡片、关键词过滤
func (h *Handler) ListListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	sellerID, _ := strconv.ParseUint(c.Query("seller_id"), 10, 64)
	cardID, _ := strconv.ParseUint(c.Query("card_id"), 10, 64)

	listings, total, err := h.ListingService.List(service.ListingListInput{
		SellerID:      uint(sellerID),
		CardID:        uint(cardID),
		AvailableOnly: c.DefaultQuery("available_only", "true") != "false",
		Keyword:       strings.TrimSpace(c.Query("keyword")),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.listing_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, listings, pagination)
}

// GetListing 商品详情，短缓存
func (h *Handler) GetListing(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	cacheKey := fmt.Sprintf(listingDetailCacheKey, rawID)
	var cached models.Listing
	if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	listing, err := h.ListingService.GetByID(uint(rawID))
	if err != nil {
		respondListingError(c, err)
		return
	}

	_ = cache.SetJSON(c.Request.Context(), cacheKey, listing, listingDetailCacheTTL)
	response.Success(c, listing)
}
