package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/slabmarket-next/internal/constants"
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/metrics"
	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/queue"

	"gorm.io/gorm"
)

// 包裹失败原因
const (
	FailureListingUnavailable = "listing_unavailable"
	FailurePaymentDeclined    = "payment_declined"
	FailureCanceled           = "canceled"
	FailureCommitFailed       = "commit_failed"
)

// errReservationLost 预留未全量命中，事务回滚信号
var errReservationLost = errors.New("reservation lost")

// PackageResult 单个包裹的提交结果
type PackageResult struct {
	OrderNo             string `json:"order_no"`
	SellerID            uint   `json:"seller_id"`
	Committed           bool   `json:"committed"`
	FailureReason       string `json:"failure_reason,omitempty"`
	UnavailableListings []uint `json:"unavailable_listings,omitempty"`
}

// CheckoutResult 一次结账的结构化结果。
// 部分包裹失败不影响其余包裹成交。
type CheckoutResult struct {
	CommittedOrders []string          `json:"committed_orders"`
	Unavailable     map[string][]uint `json:"unavailable"` // 订单号 -> 被抢走的商品
	Packages        []PackageResult   `json:"packages"`
}

// SetMetrics 注入结账指标（可选）
func (s *CheckoutService) SetMetrics(m *metrics.CheckoutMetrics) {
	s.metrics = m
}

// Commit 并发提交结账计划中的全部包裹。
// 每个包裹单独一个事务：预留、扣款、落单要么全成要么全回滚；
// 瞬时故障按同一订单号重试，耗尽后兜底释放预留。
func (s *CheckoutService) Commit(ctx context.Context, input CheckoutInput, plan *CheckoutPlan) (*CheckoutResult, error) {
	if input.BuyerID == 0 {
		return nil, ErrIdentityRequired
	}
	if plan == nil || len(plan.Packages) == 0 {
		return nil, ErrInvalidPackage
	}
	for _, pkg := range plan.Packages {
		if pkg.OrderNo == "" || pkg.SellerID == 0 || len(pkg.Items) == 0 {
			return nil, ErrInvalidPackage
		}
		for _, item := range pkg.Items {
			if item.ListingID == 0 {
				return nil, ErrInvalidPackage
			}
		}
	}

	results := make([]PackageResult, len(plan.Packages))
	var wg sync.WaitGroup
	for i := range plan.Packages {
		pkg := plan.Packages[i]
		// 取消信号在包裹之间生效：已启动的包裹跑完，未启动的不再发起
		if err := ctx.Err(); err != nil {
			results[i] = PackageResult{OrderNo: pkg.OrderNo, SellerID: pkg.SellerID, FailureReason: FailureCanceled}
			continue
		}
		wg.Add(1)
		go func(idx int, pkg Package) {
			defer wg.Done()
			results[idx] = s.commitPackage(ctx, input, plan, pkg)
		}(i, pkg)
	}
	wg.Wait()

	result := &CheckoutResult{
		CommittedOrders: []string{},
		Unavailable:     map[string][]uint{},
		Packages:        results,
	}
	committedListings := make([]uint, 0)
	for i, r := range results {
		if r.Committed {
			result.CommittedOrders = append(result.CommittedOrders, r.OrderNo)
			for _, item := range plan.Packages[i].Items {
				committedListings = append(committedListings, item.ListingID)
			}
		}
		if len(r.UnavailableListings) > 0 {
			result.Unavailable[r.OrderNo] = r.UnavailableListings
		}
	}

	// 成交的商品一次性移出购物车；失败包裹的商品留在车里
	if len(committedListings) > 0 {
		if _, err := s.cartRepo.DeleteByIdentityAndListings(input.BuyerID, "", committedListings); err != nil {
			logger.Errorw("checkout_cart_cleanup_failed", "buyer_id", input.BuyerID, "error", err)
		}
	}

	for _, orderNo := range result.CommittedOrders {
		err := s.queueClient.EnqueueOrderConfirmation(queue.OrderConfirmationPayload{
			OrderNo: orderNo,
			BuyerID: input.BuyerID,
		})
		if err != nil {
			logger.Warnw("order_confirmation_enqueue_failed", "order_no", orderNo, "error", err)
		}
	}

	return result, nil
}

// Checkout 拆包并立即提交
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutPlan, *CheckoutResult, error) {
	plan, err := s.Split(input)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.Commit(ctx, input, plan)
	if err != nil {
		return plan, nil, err
	}
	return plan, result, nil
}

func (s *CheckoutService) commitPackage(ctx context.Context, input CheckoutInput, plan *CheckoutPlan, pkg Package) PackageResult {
	start := time.Now()
	result := PackageResult{OrderNo: pkg.OrderNo, SellerID: pkg.SellerID}

	listingIDs := make([]uint, 0, len(pkg.Items))
	for _, item := range pkg.Items {
		listingIDs = append(listingIDs, item.ListingID)
	}

	var lostListings []uint
	var lastErr error
	for attempt := 1; attempt <= s.commitRetries; attempt++ {
		lostListings = nil
		err := models.DB.Transaction(func(tx *gorm.DB) error {
			listingRepo := s.listingRepo.WithTx(tx)
			now := time.Now()

			affected, err := listingRepo.Reserve(listingIDs, pkg.OrderNo, now)
			if err != nil {
				return err
			}
			if affected != int64(len(listingIDs)) {
				lost, probeErr := listingRepo.ListSoldOutside(listingIDs, pkg.OrderNo)
				if probeErr != nil {
					logger.Warnw("reservation_probe_failed", "order_no", pkg.OrderNo, "error", probeErr)
				}
				for _, listing := range lost {
					lostListings = append(lostListings, listing.ID)
				}
				return errReservationLost
			}

			if _, err := s.gateway.Capture(ctx, pkg.OrderNo, pkg.TotalAmount, pkg.Currency); err != nil {
				return err
			}

			order := &models.Order{
				OrderNo:           pkg.OrderNo,
				BuyerID:           input.BuyerID,
				SellerID:          pkg.SellerID,
				ShippingAddressID: plan.ShippingAddressID,
				BillingAddressID:  plan.BillingAddressID,
				Subtotal:          pkg.Subtotal,
				ShippingPrice:     pkg.ShippingPrice,
				TaxAmount:         pkg.TaxAmount,
				TotalAmount:       pkg.TotalAmount,
				Currency:          pkg.Currency,
				Status:            constants.OrderStatusCreated,
				OrderDate:         now,
			}
			items := make([]models.OrderItem, 0, len(pkg.Items))
			for _, item := range pkg.Items {
				items = append(items, models.OrderItem{
					ListingID: item.ListingID,
					CardID:    item.CardID,
					GradeID:   item.GradeID,
					Quantity:  1,
					Price:     item.Price,
				})
			}
			return s.orderRepo.WithTx(tx).CreateWithItems(order, items)
		})

		if err == nil {
			result.Committed = true
			s.observeCommit("committed", start)
			logger.Infow("package_committed", "order_no", pkg.OrderNo, "seller_id", pkg.SellerID, "listings", len(listingIDs))
			return result
		}

		switch {
		case errors.Is(err, errReservationLost):
			result.FailureReason = FailureListingUnavailable
			result.UnavailableListings = lostListings
			if s.metrics != nil {
				s.metrics.ReservationLost.Add(float64(len(lostListings)))
			}
			s.observeCommit("unavailable", start)
			logger.Infow("package_reservation_lost", "order_no", pkg.OrderNo, "lost", lostListings)
			return result
		case errors.Is(err, ErrPaymentDeclined):
			result.FailureReason = FailurePaymentDeclined
			s.observeCommit("payment_declined", start)
			logger.Infow("package_payment_declined", "order_no", pkg.OrderNo)
			return result
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			result.FailureReason = FailureCanceled
			s.observeCommit("canceled", start)
			return result
		}

		lastErr = err
		if s.metrics != nil {
			s.metrics.CommitRetries.Inc()
		}
		logger.Warnw("package_commit_retry", "order_no", pkg.OrderNo, "attempt", attempt, "error", err)
	}

	// 重试耗尽。事务回滚已撤销预留，这里再显式释放一次兜底，
	// 释放失败则交给 worker 重试。
	result.FailureReason = FailureCommitFailed
	s.observeCommit("failed", start)
	logger.Errorw("package_commit_failed", "order_no", pkg.OrderNo, "error", lastErr)
	if _, err := s.listingRepo.ReleaseByOrderNo(pkg.OrderNo); err != nil {
		logger.Errorw("reservation_release_failed", "order_no", pkg.OrderNo, "error", err)
		if s.metrics != nil {
			s.metrics.ReleasesDeferred.Inc()
		}
		if enqueueErr := s.queueClient.EnqueueReservationRelease(queue.ReservationReleasePayload{OrderNo: pkg.OrderNo}, 0); enqueueErr != nil {
			logger.Errorw("reservation_release_enqueue_failed", "order_no", pkg.OrderNo, "error", enqueueErr)
		}
	}
	return result
}

func (s *CheckoutService) observeCommit(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.PackagesTotal.WithLabelValues(outcome).Inc()
	s.metrics.CommitDurationMS.WithLabelValues(outcome).Observe(float64(time.Since(start).Milliseconds()))
}
