package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/slabmarket-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupListingRepositoryTest(t *testing.T) (*GormListingRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:listing_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Seller{},
		&models.Card{},
		&models.Grade{},
		&models.Listing{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewListingRepository(db), db
}

func seedListings(t *testing.T, db *gorm.DB, count int) []uint {
	t.Helper()
	seller := models.Seller{Name: fmt.Sprintf("seller_%d", time.Now().UnixNano()), ShippingPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("5.00"))}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("create seller failed: %v", err)
	}
	ids := make([]uint, 0, count)
	for i := 0; i < count; i++ {
		card := models.Card{Name: fmt.Sprintf("card_%d", i)}
		if err := db.Create(&card).Error; err != nil {
			t.Fatalf("create card failed: %v", err)
		}
		grade := models.Grade{Company: "PSA", Score: "10"}
		if err := db.Create(&grade).Error; err != nil {
			t.Fatalf("create grade failed: %v", err)
		}
		listing := models.Listing{
			SellerID: seller.ID,
			CardID:   card.ID,
			GradeID:  grade.ID,
			Price:    models.NewMoneyFromDecimal(decimal.RequireFromString("100.00")),
		}
		if err := db.Create(&listing).Error; err != nil {
			t.Fatalf("create listing failed: %v", err)
		}
		ids = append(ids, listing.ID)
	}
	return ids
}

func TestListingRepositoryReserveIsAtomic(t *testing.T) {
	repo, db := setupListingRepositoryTest(t)
	ids := seedListings(t, db, 2)
	now := time.Now()

	affected, err := repo.Reserve(ids, "SM1001", now)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 rows reserved, got %d", affected)
	}

	// 第二个订单对同一批商品的占用必须颗粒无收
	affected, err = repo.Reserve(ids, "SM1002", now)
	if err != nil {
		t.Fatalf("second reserve failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows for second reserve, got %d", affected)
	}

	var listing models.Listing
	if err := db.First(&listing, ids[0]).Error; err != nil {
		t.Fatalf("load listing failed: %v", err)
	}
	if !listing.Sold || listing.OrderNo != "SM1001" {
		t.Fatalf("unexpected listing state after reserve: %+v", listing)
	}
}

func TestListingRepositoryReservePartial(t *testing.T) {
	repo, db := setupListingRepositoryTest(t)
	ids := seedListings(t, db, 3)
	now := time.Now()

	if _, err := repo.Reserve(ids[1:2], "SM2001", now); err != nil {
		t.Fatalf("pre-reserve failed: %v", err)
	}

	affected, err := repo.Reserve(ids, "SM2002", now)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 rows reserved, got %d", affected)
	}

	lost, err := repo.ListSoldOutside(ids, "SM2002")
	if err != nil {
		t.Fatalf("list sold outside failed: %v", err)
	}
	if len(lost) != 1 || lost[0].ID != ids[1] {
		t.Fatalf("unexpected lost listings: %+v", lost)
	}
}

func TestListingRepositoryReleaseByOrderNo(t *testing.T) {
	repo, db := setupListingRepositoryTest(t)
	ids := seedListings(t, db, 2)
	now := time.Now()

	if _, err := repo.Reserve(ids, "SM3001", now); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	released, err := repo.ReleaseByOrderNo("SM3001")
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if released != 2 {
		t.Fatalf("expected 2 rows released, got %d", released)
	}

	var listings []models.Listing
	if err := db.Where("id IN ?", ids).Find(&listings).Error; err != nil {
		t.Fatalf("load listings failed: %v", err)
	}
	for _, listing := range listings {
		if listing.Sold || listing.OrderNo != "" {
			t.Fatalf("listing not released: %+v", listing)
		}
	}

	// 重复释放应是无害的
	released, err = repo.ReleaseByOrderNo("SM3001")
	if err != nil {
		t.Fatalf("second release failed: %v", err)
	}
	if released != 0 {
		t.Fatalf("expected 0 rows on second release, got %d", released)
	}
}
