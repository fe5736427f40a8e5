package service

import (
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/repository"
)

// ListingListInput 商品列表查询输入
type ListingListInput struct {
	SellerID      uint
	CardID        uint
	AvailableOnly bool
	Keyword       string
	Page          int
	PageSize      int
}

// ListingService 商品浏览服务
type ListingService struct {
	listingRepo repository.ListingRepository
}

// NewListingService 创建商品服务
func NewListingService(listingRepo repository.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

// GetByID 获取商品详情
func (s *ListingService) GetByID(id uint) (*models.Listing, error) {
	if id == 0 {
		return nil, ErrListingNotFound
	}
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		logger.Errorw("listing_fetch_failed", "listing_id", id, "error", err)
		return nil, ErrListingFetchFailed
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// List 浏览商品列表
func (s *ListingService) List(input ListingListInput) ([]models.Listing, int64, error) {
	filter := repository.ListingListFilter{
		SellerID: input.SellerID,
		CardID:   input.CardID,
		Keyword:  input.Keyword,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.AvailableOnly {
		sold := false
		filter.Sold = &sold
	}
	listings, total, err := s.listingRepo.List(filter)
	if err != nil {
		logger.Errorw("listing_list_failed", "error", err)
		return nil, 0, err
	}
	return listings, total, nil
}
