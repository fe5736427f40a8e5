package service

import (
	"context"
	"errors"
	"testing"

	"github.com/slabmarket-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestCheckoutCommitHappyPath(t *testing.T) {
	f := setupCheckoutTest(t)
	seller1 := createTestSeller(t, f.db, "commit_s1", "4.00")
	seller2 := createTestSeller(t, f.db, "commit_s2", "6.00")
	l1 := createTestListing(t, f.db, seller1, "100.00")
	l2 := createTestListing(t, f.db, seller2, "40.00")
	f.addToCart(t, l1, l2)

	plan, result, err := f.svc.Checkout(context.Background(), f.input())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(result.CommittedOrders) != 2 {
		t.Fatalf("expected 2 committed orders, got %+v", result)
	}

	var orderCount int64
	if err := f.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 2 {
		t.Fatalf("expected 2 orders persisted, got %d", orderCount)
	}

	for _, pkg := range plan.Packages {
		order, err := f.svc.orderRepo.GetByOrderNo(pkg.OrderNo)
		if err != nil || order == nil {
			t.Fatalf("load order %s failed: %v", pkg.OrderNo, err)
		}
		if !order.TotalAmount.Decimal.Equal(pkg.TotalAmount.Decimal) {
			t.Fatalf("order total mismatch: %s vs %s", order.TotalAmount, pkg.TotalAmount)
		}
		if len(order.Items) != len(pkg.Items) {
			t.Fatalf("order item count mismatch for %s", pkg.OrderNo)
		}
	}

	var soldCount int64
	if err := f.db.Model(&models.Listing{}).Where("sold = ?", true).Count(&soldCount).Error; err != nil {
		t.Fatalf("count sold failed: %v", err)
	}
	if soldCount != 2 {
		t.Fatalf("expected both listings sold, got %d", soldCount)
	}

	// 成交商品移出购物车
	view, err := f.cartSvc.View(ResolveIdentity(f.buyerID, ""))
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(view.Active) != 0 {
		t.Fatalf("expected empty cart after checkout, got %d items", len(view.Active))
	}
}

func TestCheckoutCommitPartialFailureIsolatesPackages(t *testing.T) {
	f := setupCheckoutTest(t)
	seller1 := createTestSeller(t, f.db, "partial_s1", "4.00")
	seller2 := createTestSeller(t, f.db, "partial_s2", "6.00")
	l1 := createTestListing(t, f.db, seller1, "100.00")
	l2 := createTestListing(t, f.db, seller1, "50.00")
	l3 := createTestListing(t, f.db, seller2, "40.00")
	f.addToCart(t, l1, l2, l3)

	plan, err := f.svc.Split(f.input())
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	// 拆包后、提交前，l2 被并发买家抢走
	if err := f.db.Model(&models.Listing{}).Where("id = ?", l2).
		Updates(map[string]interface{}{"sold": true, "order_no": "SM-rival"}).Error; err != nil {
		t.Fatalf("rival purchase failed: %v", err)
	}

	result, err := f.svc.Commit(context.Background(), f.input(), plan)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	// seller2 包裹成交，seller1 包裹整体失败
	if len(result.CommittedOrders) != 1 {
		t.Fatalf("expected 1 committed order, got %+v", result)
	}
	var failed *PackageResult
	for i := range result.Packages {
		if !result.Packages[i].Committed {
			failed = &result.Packages[i]
		}
	}
	if failed == nil || failed.SellerID != seller1 {
		t.Fatalf("expected seller1 package to fail, got %+v", result.Packages)
	}
	if failed.FailureReason != FailureListingUnavailable {
		t.Fatalf("expected listing_unavailable, got %s", failed.FailureReason)
	}
	if len(result.Unavailable[failed.OrderNo]) != 1 || result.Unavailable[failed.OrderNo][0] != l2 {
		t.Fatalf("expected l2 reported unavailable, got %v", result.Unavailable)
	}

	// 失败包裹内的 l1 必须被回滚释放
	var listing models.Listing
	if err := f.db.First(&listing, l1).Error; err != nil {
		t.Fatalf("load l1 failed: %v", err)
	}
	if listing.Sold {
		t.Fatalf("expected l1 released after failed package, got %+v", listing)
	}

	// 购物车保留失败包裹的商品，成交商品被移除
	view, err := f.cartSvc.View(ResolveIdentity(f.buyerID, ""))
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(view.Active) != 2 {
		t.Fatalf("expected 2 items left in cart, got %d", len(view.Active))
	}

	var orderCount int64
	if err := f.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 1 {
		t.Fatalf("expected only committed package persisted, got %d orders", orderCount)
	}
}

func TestCheckoutCommitPaymentDeclined(t *testing.T) {
	f := setupCheckoutTest(t)
	sellerID := createTestSeller(t, f.db, "declined_s", "4.00")
	listingID := createTestListing(t, f.db, sellerID, "100.00")
	f.addToCart(t, listingID)

	// 100 + 4 + 7 = 111
	f.gateway.declineAmount = decimal.RequireFromString("111")

	_, result, err := f.svc.Checkout(context.Background(), f.input())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(result.CommittedOrders) != 0 {
		t.Fatalf("expected no committed orders, got %+v", result)
	}
	if result.Packages[0].FailureReason != FailurePaymentDeclined {
		t.Fatalf("expected payment_declined, got %s", result.Packages[0].FailureReason)
	}
	if f.gateway.calls != 1 {
		t.Fatalf("declined capture must not be retried, got %d calls", f.gateway.calls)
	}

	// 拒付回滚后商品回到货架，购物车不动
	var listing models.Listing
	if err := f.db.First(&listing, listingID).Error; err != nil {
		t.Fatalf("load listing failed: %v", err)
	}
	if listing.Sold {
		t.Fatalf("expected listing released after declined payment")
	}
	view, err := f.cartSvc.View(ResolveIdentity(f.buyerID, ""))
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(view.Active) != 1 {
		t.Fatalf("expected cart untouched, got %d items", len(view.Active))
	}
}

func TestCheckoutCommitTransientErrorRetriesThenReleases(t *testing.T) {
	f := setupCheckoutTest(t)
	sellerID := createTestSeller(t, f.db, "transient_s", "4.00")
	listingID := createTestListing(t, f.db, sellerID, "100.00")
	f.addToCart(t, listingID)

	f.gateway.transientErr = errors.New("gateway timeout")

	_, result, err := f.svc.Checkout(context.Background(), f.input())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Packages[0].Committed || result.Packages[0].FailureReason != FailureCommitFailed {
		t.Fatalf("expected commit_failed, got %+v", result.Packages[0])
	}
	// 瞬时故障重试到上限，订单号不变
	if f.gateway.calls != 3 {
		t.Fatalf("expected 3 capture attempts, got %d", f.gateway.calls)
	}

	var listing models.Listing
	if err := f.db.First(&listing, listingID).Error; err != nil {
		t.Fatalf("load listing failed: %v", err)
	}
	if listing.Sold || listing.OrderNo != "" {
		t.Fatalf("expected reservation released after exhausted retries, got %+v", listing)
	}

	var orderCount int64
	if err := f.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no order persisted, got %d", orderCount)
	}
}

func TestCheckoutCommitRejectsInvalidPackage(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.svc.Commit(context.Background(), f.input(), &CheckoutPlan{
		Packages: []Package{{OrderNo: "SM-bad", SellerID: 1, Items: []PackageItem{}}},
	})
	if err != ErrInvalidPackage {
		t.Fatalf("expected ErrInvalidPackage, got: %v", err)
	}

	_, err = f.svc.Commit(context.Background(), f.input(), &CheckoutPlan{Packages: []Package{}})
	if err != ErrInvalidPackage {
		t.Fatalf("expected ErrInvalidPackage for empty plan, got: %v", err)
	}
}

func TestCheckoutCommitCanceledContext(t *testing.T) {
	f := setupCheckoutTest(t)
	sellerID := createTestSeller(t, f.db, "cancel_s", "4.00")
	f.addToCart(t, createTestListing(t, f.db, sellerID, "100.00"))

	plan, err := f.svc.Split(f.input())
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := f.svc.Commit(ctx, f.input(), plan)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if len(result.CommittedOrders) != 0 || result.Packages[0].FailureReason != FailureCanceled {
		t.Fatalf("expected canceled package, got %+v", result)
	}
}
