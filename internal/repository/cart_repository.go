package repository

import (
	"errors"
	"time"

	"github.com/slabmarket-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口。
// 身份由 (userID, sessionID) 承载，二者恰有一个非零值。
type CartRepository interface {
	ListByIdentity(userID uint, sessionID string, saved bool) ([]models.CartItem, error)
	ListAllByIdentity(userID uint, sessionID string) ([]models.CartItem, error)
	Upsert(item *models.CartItem) error
	SetSaved(userID uint, sessionID string, listingID uint, saved bool) (int64, error)
	DeleteByIdentityAndListing(userID uint, sessionID string, listingID uint) (int64, error)
	DeleteByIdentityAndListings(userID uint, sessionID string, listingIDs []uint) (int64, error)
	DeleteBySession(sessionID string) error
	ReassignToUser(sessionID string, listingIDs []uint, userID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

func identityScope(db *gorm.DB, userID uint, sessionID string) *gorm.DB {
	if userID > 0 {
		return db.Where("user_id = ?", userID)
	}
	return db.Where("user_id = 0 AND session_id = ?", sessionID)
}

// ListByIdentity 获取某身份下指定分区（活跃/稍后购买）的购物车项
func (r *GormCartRepository) ListByIdentity(userID uint, sessionID string, saved bool) ([]models.CartItem, error) {
	var items []models.CartItem
	query := identityScope(r.db.Preload("Listing").Preload("Listing.Seller").
		Preload("Listing.Card").Preload("Listing.Grade"), userID, sessionID)
	if err := query.Where("saved = ?", saved).Order("added_at asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListAllByIdentity 获取某身份下全部购物车项（含稍后购买）
func (r *GormCartRepository) ListAllByIdentity(userID uint, sessionID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := identityScope(r.db, userID, sessionID).Order("added_at asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert 加入购物车。同一身份下同一商品已存在时不做任何修改（集合语义）。
func (r *GormCartRepository) Upsert(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	var existing models.CartItem
	err := identityScope(r.db, item.UserID, item.SessionID).
		Where("listing_id = ?", item.ListingID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if item.AddedAt.IsZero() {
			item.AddedAt = time.Now()
		}
		return r.db.Create(item).Error
	}
	return err
}

// SetSaved 在活跃购物车与稍后购买之间移动条目
func (r *GormCartRepository) SetSaved(userID uint, sessionID string, listingID uint, saved bool) (int64, error) {
	result := identityScope(r.db.Model(&models.CartItem{}), userID, sessionID).
		Where("listing_id = ?", listingID).
		Updates(map[string]interface{}{
			"saved":      saved,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteByIdentityAndListing 删除单个购物车条目
func (r *GormCartRepository) DeleteByIdentityAndListing(userID uint, sessionID string, listingID uint) (int64, error) {
	result := identityScope(r.db, userID, sessionID).
		Where("listing_id = ?", listingID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteByIdentityAndListings 批量删除购物车条目（结账成功后清理用）
func (r *GormCartRepository) DeleteByIdentityAndListings(userID uint, sessionID string, listingIDs []uint) (int64, error) {
	if len(listingIDs) == 0 {
		return 0, nil
	}
	result := identityScope(r.db, userID, sessionID).
		Where("listing_id IN ?", listingIDs).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ReassignToUser 将匿名会话条目改挂到用户名下（登录合并用）。
// 只迁移给定 listing 集合内的行，调用方负责先排除用户侧已有的商品。
func (r *GormCartRepository) ReassignToUser(sessionID string, listingIDs []uint, userID uint) (int64, error) {
	if sessionID == "" || userID == 0 || len(listingIDs) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.CartItem{}).
		Where("user_id = 0 AND session_id = ? AND listing_id IN ?", sessionID, listingIDs).
		Updates(map[string]interface{}{
			"user_id":    userID,
			"session_id": "",
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteBySession 删除某匿名会话的全部条目（合并完成后调用）
func (r *GormCartRepository) DeleteBySession(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return r.db.Where("user_id = 0 AND session_id = ?", sessionID).Delete(&models.CartItem{}).Error
}
