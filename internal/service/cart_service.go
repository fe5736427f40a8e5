package service

import (
	"time"

	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/repository"

	"gorm.io/gorm"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ListingID uint            `json:"listing_id"`
	Price     models.Money    `json:"price"`
	Saved     bool            `json:"saved"`
	AddedAt   time.Time       `json:"added_at"`
	Listing   *models.Listing `json:"listing"`
}

// CartView 购物车视图：活跃分区与稍后购买分区
type CartView struct {
	Active []CartItemDetail `json:"active"`
	Saved  []CartItemDetail `json:"saved"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	listingRepo repository.ListingRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, listingRepo repository.ListingRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		listingRepo: listingRepo,
	}
}

// View 获取购物车两个分区的内容
func (s *CartService) View(identity CartIdentity) (*CartView, error) {
	if !identity.Valid() {
		return nil, ErrIdentityRequired
	}

	view := &CartView{Active: []CartItemDetail{}, Saved: []CartItemDetail{}}
	for _, saved := range []bool{false, true} {
		items, err := s.cartRepo.ListByIdentity(identity.UserID, identity.SessionID, saved)
		if err != nil {
			logger.Errorw("cart_list_failed", "user_id", identity.UserID, "error", err)
			return nil, ErrCartFetchFailed
		}
		for _, item := range items {
			detail := CartItemDetail{
				ListingID: item.ListingID,
				Saved:     item.Saved,
				AddedAt:   item.AddedAt,
				Listing:   item.Listing,
			}
			if item.Listing != nil {
				detail.Price = item.Listing.Price
			}
			if saved {
				view.Saved = append(view.Saved, detail)
			} else {
				view.Active = append(view.Active, detail)
			}
		}
	}
	return view, nil
}

// AddItem 加入购物车。已售出的商品拒绝加入；
// 重复加入同一商品是无害的空操作（集合语义）。
func (s *CartService) AddItem(identity CartIdentity, listingID uint) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}
	if listingID == 0 {
		return ErrListingNotFound
	}

	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		logger.Errorw("cart_add_lookup_failed", "listing_id", listingID, "error", err)
		return ErrCartUpdateFailed
	}
	if listing == nil {
		return ErrListingNotFound
	}
	if listing.Sold {
		return ErrListingUnavailable
	}

	item := &models.CartItem{
		UserID:    identity.UserID,
		SessionID: identity.SessionID,
		ListingID: listingID,
		AddedAt:   time.Now(),
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		logger.Errorw("cart_add_failed", "listing_id", listingID, "error", err)
		return ErrCartUpdateFailed
	}
	return nil
}

// RemoveItem 删除购物车条目
func (s *CartService) RemoveItem(identity CartIdentity, listingID uint) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}
	affected, err := s.cartRepo.DeleteByIdentityAndListing(identity.UserID, identity.SessionID, listingID)
	if err != nil {
		logger.Errorw("cart_remove_failed", "listing_id", listingID, "error", err)
		return ErrCartUpdateFailed
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// MoveToSaved 移入稍后购买
func (s *CartService) MoveToSaved(identity CartIdentity, listingID uint) error {
	return s.setSaved(identity, listingID, true)
}

// MoveToActive 从稍后购买移回活跃购物车
func (s *CartService) MoveToActive(identity CartIdentity, listingID uint) error {
	return s.setSaved(identity, listingID, false)
}

func (s *CartService) setSaved(identity CartIdentity, listingID uint, saved bool) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}
	affected, err := s.cartRepo.SetSaved(identity.UserID, identity.SessionID, listingID, saved)
	if err != nil {
		logger.Errorw("cart_move_failed", "listing_id", listingID, "saved", saved, "error", err)
		return ErrCartUpdateFailed
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// MergeOnLogin 登录时将匿名会话购物车并入用户购物车。
// 并集语义：两边都有的商品只保留一条；活跃分区优先于稍后购买。
// 会话被清空，重放合并是空操作。
func (s *CartService) MergeOnLogin(userID uint, sessionID string) error {
	if userID == 0 {
		return ErrIdentityRequired
	}
	if sessionID == "" {
		return nil
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		sessionItems, err := cartRepo.ListAllByIdentity(0, sessionID)
		if err != nil {
			return err
		}
		if len(sessionItems) == 0 {
			return nil
		}

		userItems, err := cartRepo.ListAllByIdentity(userID, "")
		if err != nil {
			return err
		}
		userSaved := make(map[uint]bool, len(userItems))
		for _, item := range userItems {
			userSaved[item.ListingID] = item.Saved
		}

		moveIDs := make([]uint, 0, len(sessionItems))
		for _, item := range sessionItems {
			saved, exists := userSaved[item.ListingID]
			if !exists {
				moveIDs = append(moveIDs, item.ListingID)
				continue
			}
			// 两边都有：会话侧在活跃分区则把用户侧也拉回活跃
			if saved && !item.Saved {
				if _, err := cartRepo.SetSaved(userID, "", item.ListingID, false); err != nil {
					return err
				}
			}
		}

		if _, err := cartRepo.ReassignToUser(sessionID, moveIDs, userID); err != nil {
			return err
		}
		return cartRepo.DeleteBySession(sessionID)
	})
	if err != nil {
		logger.Errorw("cart_merge_failed", "user_id", userID, "error", err)
		return ErrMergeFailed
	}
	return nil
}
