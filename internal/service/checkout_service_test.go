package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/queue"
	"github.com/slabmarket-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// stubGateway 可编程的支付网关桩
type stubGateway struct {
	mu            sync.Mutex
	calls         int
	captured      []string
	declineAmount decimal.Decimal // 等额拒付
	transientErr  error           // 非空则每次扣款失败（可重试）
}

func (g *stubGateway) Capture(ctx context.Context, orderNo string, amount models.Money, currency string) (*PaymentCapture, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.transientErr != nil {
		return nil, g.transientErr
	}
	if !g.declineAmount.IsZero() && amount.Decimal.Equal(g.declineAmount) {
		return nil, ErrPaymentDeclined
	}
	g.captured = append(g.captured, orderNo)
	return &PaymentCapture{Reference: "cap_" + orderNo}, nil
}

type checkoutFixture struct {
	svc      *CheckoutService
	cartSvc  *CartService
	gateway  *stubGateway
	db       *gorm.DB
	buyerID  uint
	shipAddr uint
	billAddr uint
}

func setupCheckoutTest(t *testing.T) *checkoutFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:checkout_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Seller{},
		&models.Card{},
		&models.Grade{},
		&models.Listing{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	// 单连接串行化并发事务，避免内存库锁冲突干扰断言
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	models.DB = db

	user := models.User{Email: fmt.Sprintf("buyer_%d@example.com", time.Now().UnixNano()), PasswordHash: "hash"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	ship := models.Address{UserID: user.ID, Name: "Buyer", Line1: "1 Main St", City: "Austin", PostalCode: "73301"}
	if err := db.Create(&ship).Error; err != nil {
		t.Fatalf("create shipping address failed: %v", err)
	}
	bill := models.Address{UserID: user.ID, Name: "Buyer", Line1: "2 Main St", City: "Austin", PostalCode: "73301"}
	if err := db.Create(&bill).Error; err != nil {
		t.Fatalf("create billing address failed: %v", err)
	}

	cartRepo := repository.NewCartRepository(db)
	listingRepo := repository.NewListingRepository(db)
	gateway := &stubGateway{}
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	svc := NewCheckoutService(
		cartRepo,
		listingRepo,
		repository.NewSellerRepository(db),
		repository.NewAddressRepository(db),
		repository.NewOrderRepository(db),
		gateway,
		queueClient,
		"0.07",
		3,
	)
	return &checkoutFixture{
		svc:      svc,
		cartSvc:  NewCartService(cartRepo, listingRepo),
		gateway:  gateway,
		db:       db,
		buyerID:  user.ID,
		shipAddr: ship.ID,
		billAddr: bill.ID,
	}
}

func (f *checkoutFixture) input() CheckoutInput {
	return CheckoutInput{
		BuyerID:           f.buyerID,
		ShippingAddressID: f.shipAddr,
		BillingAddressID:  f.billAddr,
	}
}

func (f *checkoutFixture) addToCart(t *testing.T, listingIDs ...uint) {
	t.Helper()
	for _, id := range listingIDs {
		if err := f.cartSvc.AddItem(ResolveIdentity(f.buyerID, ""), id); err != nil {
			t.Fatalf("add listing %d to cart failed: %v", id, err)
		}
	}
}

func TestCheckoutSplitGroupsBySeller(t *testing.T) {
	f := setupCheckoutTest(t)
	seller1 := createTestSeller(t, f.db, "split_s1", "4.00")
	seller2 := createTestSeller(t, f.db, "split_s2", "6.00")
	l1 := createTestListing(t, f.db, seller1, "100.00")
	l2 := createTestListing(t, f.db, seller2, "40.00")
	l3 := createTestListing(t, f.db, seller1, "60.00")
	f.addToCart(t, l1, l2, l3)

	plan, err := f.svc.Split(f.input())
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(plan.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(plan.Packages))
	}
	// 包裹顺序按卖家在购物车中的首次出现顺序
	if plan.Packages[0].SellerID != seller1 || plan.Packages[1].SellerID != seller2 {
		t.Fatalf("unexpected package order: %+v", plan.Packages)
	}
	if len(plan.Packages[0].Items) != 2 || len(plan.Packages[1].Items) != 1 {
		t.Fatalf("unexpected item distribution: %d/%d", len(plan.Packages[0].Items), len(plan.Packages[1].Items))
	}

	// seller1: 160 + 4 运费 + 11.20 税 = 175.20
	pkg := plan.Packages[0]
	if !pkg.Subtotal.Decimal.Equal(decimal.RequireFromString("160")) {
		t.Fatalf("expected subtotal 160, got %s", pkg.Subtotal.String())
	}
	if !pkg.TaxAmount.Decimal.Equal(decimal.RequireFromString("11.2")) {
		t.Fatalf("expected tax 11.2, got %s", pkg.TaxAmount.String())
	}
	if !pkg.TotalAmount.Decimal.Equal(decimal.RequireFromString("175.2")) {
		t.Fatalf("expected total 175.2, got %s", pkg.TotalAmount.String())
	}
	// seller2: 40 + 6 运费 + 2.80 税 = 48.80；合计 224
	if !plan.GrandTotal.Decimal.Equal(decimal.RequireFromString("224")) {
		t.Fatalf("expected grand total 224, got %s", plan.GrandTotal.String())
	}
	if plan.Packages[0].OrderNo == "" || plan.Packages[0].OrderNo == plan.Packages[1].OrderNo {
		t.Fatalf("expected distinct order numbers, got %q/%q", plan.Packages[0].OrderNo, plan.Packages[1].OrderNo)
	}
}

func TestCheckoutSplitRequiresOwnedAddress(t *testing.T) {
	f := setupCheckoutTest(t)
	sellerID := createTestSeller(t, f.db, "split_addr", "4.00")
	f.addToCart(t, createTestListing(t, f.db, sellerID, "10.00"))

	input := f.input()
	input.BillingAddressID = 9999
	if _, err := f.svc.Split(input); err != ErrAddressInvalid {
		t.Fatalf("expected ErrAddressInvalid, got: %v", err)
	}

	input = f.input()
	input.ShippingAddressID = 0
	if _, err := f.svc.Split(input); err != ErrAddressRequired {
		t.Fatalf("expected ErrAddressRequired, got: %v", err)
	}
}

func TestCheckoutSplitEmptyCart(t *testing.T) {
	f := setupCheckoutTest(t)
	if _, err := f.svc.Split(f.input()); err != ErrCartEmpty {
		t.Fatalf("expected ErrCartEmpty, got: %v", err)
	}
}

func TestCheckoutSplitSkipsSoldListings(t *testing.T) {
	f := setupCheckoutTest(t)
	sellerID := createTestSeller(t, f.db, "split_sold", "4.00")
	keep := createTestListing(t, f.db, sellerID, "10.00")
	gone := createTestListing(t, f.db, sellerID, "20.00")
	f.addToCart(t, keep, gone)

	if err := f.db.Model(&models.Listing{}).Where("id = ?", gone).
		Updates(map[string]interface{}{"sold": true, "order_no": "SM-other"}).Error; err != nil {
		t.Fatalf("mark sold failed: %v", err)
	}

	plan, err := f.svc.Split(f.input())
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(plan.Packages) != 1 || len(plan.Packages[0].Items) != 1 {
		t.Fatalf("expected sold listing excluded, got %+v", plan.Packages)
	}
	if len(plan.Unavailable) != 1 || plan.Unavailable[0] != gone {
		t.Fatalf("expected sold listing reported unavailable, got %v", plan.Unavailable)
	}
}
