package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Seller{},
		&models.Card{},
		&models.Grade{},
		&models.Listing{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCartService(repository.NewCartRepository(db), repository.NewListingRepository(db)), db
}

func createTestListing(t *testing.T, db *gorm.DB, sellerID uint, price string) uint {
	t.Helper()
	card := models.Card{Name: fmt.Sprintf("card_%d", time.Now().UnixNano())}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create card failed: %v", err)
	}
	grade := models.Grade{Company: "PSA", Score: "10"}
	if err := db.Create(&grade).Error; err != nil {
		t.Fatalf("create grade failed: %v", err)
	}
	listing := models.Listing{
		SellerID: sellerID,
		CardID:   card.ID,
		GradeID:  grade.ID,
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	return listing.ID
}

func createTestSeller(t *testing.T, db *gorm.DB, name, shipping string) uint {
	t.Helper()
	seller := models.Seller{
		Name:          name,
		ShippingPrice: models.NewMoneyFromDecimal(decimal.RequireFromString(shipping)),
	}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("create seller failed: %v", err)
	}
	return seller.ID
}

func TestCartServiceAddItemSetSemantics(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	sellerID := createTestSeller(t, db, "seller_add", "5.00")
	listingID := createTestListing(t, db, sellerID, "50.00")
	identity := ResolveIdentity(0, "sess-add")

	if err := svc.AddItem(identity, listingID); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := svc.AddItem(identity, listingID); err != nil {
		t.Fatalf("duplicate add should be a no-op, got: %v", err)
	}

	view, err := svc.View(identity)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Active) != 1 {
		t.Fatalf("expected 1 active item, got %d", len(view.Active))
	}
}

func TestCartServiceAddItemRejectsSold(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	sellerID := createTestSeller(t, db, "seller_sold", "5.00")
	listingID := createTestListing(t, db, sellerID, "50.00")
	if err := db.Model(&models.Listing{}).Where("id = ?", listingID).
		Update("sold", true).Error; err != nil {
		t.Fatalf("mark sold failed: %v", err)
	}

	err := svc.AddItem(ResolveIdentity(0, "sess-sold"), listingID)
	if err != ErrListingUnavailable {
		t.Fatalf("expected ErrListingUnavailable, got: %v", err)
	}
}

func TestCartServiceSavedSection(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	sellerID := createTestSeller(t, db, "seller_saved", "5.00")
	listingID := createTestListing(t, db, sellerID, "50.00")
	identity := ResolveIdentity(4, "")

	if err := svc.AddItem(identity, listingID); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := svc.MoveToSaved(identity, listingID); err != nil {
		t.Fatalf("move to saved failed: %v", err)
	}

	view, err := svc.View(identity)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Active) != 0 || len(view.Saved) != 1 {
		t.Fatalf("expected item in saved section, got active=%d saved=%d", len(view.Active), len(view.Saved))
	}

	if err := svc.MoveToActive(identity, listingID); err != nil {
		t.Fatalf("move to active failed: %v", err)
	}
	view, err = svc.View(identity)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Active) != 1 || len(view.Saved) != 0 {
		t.Fatalf("expected item back in active section, got active=%d saved=%d", len(view.Active), len(view.Saved))
	}
}

func TestCartServiceMergeOnLoginUnion(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	sellerID := createTestSeller(t, db, "seller_merge", "5.00")
	shared := createTestListing(t, db, sellerID, "10.00")
	sessionOnly := createTestListing(t, db, sellerID, "20.00")
	userOnly := createTestListing(t, db, sellerID, "30.00")

	userIdentity := ResolveIdentity(7, "")
	sessionIdentity := ResolveIdentity(0, "sess-merge")

	// 用户侧：shared 在稍后购买分区，userOnly 在活跃分区
	if err := svc.AddItem(userIdentity, shared); err != nil {
		t.Fatalf("user add failed: %v", err)
	}
	if err := svc.MoveToSaved(userIdentity, shared); err != nil {
		t.Fatalf("move to saved failed: %v", err)
	}
	if err := svc.AddItem(userIdentity, userOnly); err != nil {
		t.Fatalf("user add failed: %v", err)
	}
	// 会话侧：shared 与 sessionOnly 均在活跃分区
	if err := svc.AddItem(sessionIdentity, shared); err != nil {
		t.Fatalf("session add failed: %v", err)
	}
	if err := svc.AddItem(sessionIdentity, sessionOnly); err != nil {
		t.Fatalf("session add failed: %v", err)
	}

	if err := svc.MergeOnLogin(7, "sess-merge"); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	view, err := svc.View(userIdentity)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	// 并集 3 件；shared 活跃分区优先，全部落在活跃分区
	if len(view.Active) != 3 || len(view.Saved) != 0 {
		t.Fatalf("expected 3 active items after merge, got active=%d saved=%d", len(view.Active), len(view.Saved))
	}

	var sessionCount int64
	if err := db.Model(&models.CartItem{}).
		Where("session_id = ?", "sess-merge").Count(&sessionCount).Error; err != nil {
		t.Fatalf("count session items failed: %v", err)
	}
	if sessionCount != 0 {
		t.Fatalf("expected empty session cart, got %d items", sessionCount)
	}

	// 合并重放必须是空操作
	if err := svc.MergeOnLogin(7, "sess-merge"); err != nil {
		t.Fatalf("merge replay failed: %v", err)
	}
	view, err = svc.View(userIdentity)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Active) != 3 {
		t.Fatalf("merge replay changed cart, got %d active items", len(view.Active))
	}
}
