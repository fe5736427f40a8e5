package repository

import (
	"errors"
	"time"

	"github.com/slabmarket-next/internal/models"

	"gorm.io/gorm"
)

// ListingListFilter 在售商品列表过滤条件
type ListingListFilter struct {
	SellerID uint
	CardID   uint
	Sold     *bool
	Keyword  string
	Page     int
	PageSize int
}

// ListingRepository 在售商品数据访问接口
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id uint) (*models.Listing, error)
	ListByIDs(ids []uint) ([]models.Listing, error)
	List(filter ListingListFilter) ([]models.Listing, int64, error)
	Reserve(ids []uint, orderNo string, soldAt time.Time) (int64, error)
	ReleaseByOrderNo(orderNo string) (int64, error)
	ListSoldOutside(ids []uint, orderNo string) ([]models.Listing, error)
	ListStaleReservationOrderNos(before time.Time) ([]string, error)
	WithTx(tx *gorm.DB) *GormListingRepository
}

// GormListingRepository GORM 实现
type GormListingRepository struct {
	db *gorm.DB
}

// NewListingRepository 创建商品仓库
func NewListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormListingRepository) WithTx(tx *gorm.DB) *GormListingRepository {
	if tx == nil {
		return r
	}
	return &GormListingRepository{db: tx}
}

// Create 创建在售商品
func (r *GormListingRepository) Create(listing *models.Listing) error {
	if listing == nil {
		return nil
	}
	return r.db.Create(listing).Error
}

// GetByID 根据 ID 获取商品，未找到返回 nil
func (r *GormListingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.Preload("Seller").Preload("Card").Preload("Grade").First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// ListByIDs 按 ID 列表查询商品
func (r *GormListingRepository) ListByIDs(ids []uint) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	var items []models.Listing
	if err := r.db.Preload("Seller").Preload("Card").Preload("Grade").
		Where("id IN ?", ids).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List 按条件查询商品列表
func (r *GormListingRepository) List(filter ListingListFilter) ([]models.Listing, int64, error) {
	query := r.db.Model(&models.Listing{}).Preload("Seller").Preload("Card").Preload("Grade")
	if filter.SellerID > 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.CardID > 0 {
		query = query.Where("card_id = ?", filter.CardID)
	}
	if filter.Sold != nil {
		query = query.Where("sold = ?", *filter.Sold)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("card_id IN (?)", r.db.Model(&models.Card{}).Select("id").
			Where("name LIKE ? OR set_name LIKE ?", keyword, keyword))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.Listing
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Reserve 原子占用商品：仅未售出的行会被翻转为已售出，
// 返回实际影响行数，调用方据此判断是否全部占用成功。
func (r *GormListingRepository) Reserve(ids []uint, orderNo string, soldAt time.Time) (int64, error) {
	if len(ids) == 0 || orderNo == "" {
		return 0, nil
	}
	result := r.db.Model(&models.Listing{}).
		Where("id IN ? AND sold = ?", ids, false).
		Updates(map[string]interface{}{
			"sold":       true,
			"order_no":   orderNo,
			"sold_at":    soldAt,
			"updated_at": soldAt,
		})
	return result.RowsAffected, result.Error
}

// ReleaseByOrderNo 释放某订单号占用的全部商品
func (r *GormListingRepository) ReleaseByOrderNo(orderNo string) (int64, error) {
	if orderNo == "" {
		return 0, nil
	}
	now := time.Now()
	result := r.db.Model(&models.Listing{}).
		Where("order_no = ? AND sold = ?", orderNo, true).
		Updates(map[string]interface{}{
			"sold":       false,
			"order_no":   "",
			"sold_at":    nil,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// ListStaleReservationOrderNos 找出疑似孤儿预留的订单号：
// 已售出且占用时间早于阈值。是否真孤儿由调用方对照订单表判定。
func (r *GormListingRepository) ListStaleReservationOrderNos(before time.Time) ([]string, error) {
	var orderNos []string
	if err := r.db.Model(&models.Listing{}).
		Distinct("order_no").
		Where("sold = ? AND order_no <> '' AND sold_at < ?", true, before).
		Pluck("order_no", &orderNos).Error; err != nil {
		return nil, err
	}
	return orderNos, nil
}

// ListSoldOutside 查询给定商品中被其他订单占用的行，
// 用于占用失败后定位具体哪些商品已被抢走。
func (r *GormListingRepository) ListSoldOutside(ids []uint, orderNo string) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	var items []models.Listing
	if err := r.db.Where("id IN ? AND sold = ? AND order_no <> ?", ids, true, orderNo).
		Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
