package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/provider"
	"github.com/slabmarket-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmation, c.handleOrderConfirmation)
	mux.HandleFunc(queue.TaskReservationRelease, c.handleReservationRelease)
}

// SweepStaleReservations 释放早于阈值且没有对应订单的预留
func (c *Consumer) SweepStaleReservations(before time.Time) error {
	if c == nil {
		return nil
	}
	orderNos, err := c.ListingRepo.ListStaleReservationOrderNos(before)
	if err != nil {
		return err
	}
	for _, orderNo := range orderNos {
		exists, err := c.OrderRepo.ExistsByOrderNo(orderNo)
		if err != nil {
			logger.Warnw("worker_stale_reservation_check_failed", "order_no", orderNo, "error", err)
			continue
		}
		if exists {
			continue
		}
		released, err := c.ListingRepo.ReleaseByOrderNo(orderNo)
		if err != nil {
			logger.Warnw("worker_stale_reservation_release_failed", "order_no", orderNo, "error", err)
			continue
		}
		logger.Infow("worker_stale_reservation_released", "order_no", orderNo, "listings", released)
	}
	return nil
}

func (c *Consumer) handleOrderConfirmation(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderNo == "" {
		logger.Debugw("worker_order_confirmation_skip_invalid_payload")
		return nil
	}
	order, err := c.OrderRepo.GetByOrderNo(payload.OrderNo)
	if err != nil {
		logger.Warnw("worker_order_confirmation_fetch_failed", "order_no", payload.OrderNo, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_confirmation_skip_order_not_found", "order_no", payload.OrderNo)
		return nil
	}
	buyer, err := c.UserRepo.GetByID(order.BuyerID)
	if err != nil {
		logger.Warnw("worker_order_confirmation_fetch_buyer_failed", "order_no", order.OrderNo, "buyer_id", order.BuyerID, "error", err)
		return err
	}
	if err := c.Notifier.SendOrderConfirmation(order, buyer); err != nil {
		logger.Warnw("worker_order_confirmation_send_failed", "order_no", order.OrderNo, "error", err)
		return err
	}
	return nil
}

// handleReservationRelease 预留释放兜底。
// 订单已落库说明该订单号的预留是合法成交，跳过释放。
func (c *Consumer) handleReservationRelease(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.ReservationReleasePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reservation_release_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderNo == "" {
		logger.Debugw("worker_reservation_release_skip_invalid_payload")
		return nil
	}
	exists, err := c.OrderRepo.ExistsByOrderNo(payload.OrderNo)
	if err != nil {
		logger.Warnw("worker_reservation_release_check_failed", "order_no", payload.OrderNo, "error", err)
		return err
	}
	if exists {
		logger.Debugw("worker_reservation_release_skip_order_exists", "order_no", payload.OrderNo)
		return nil
	}
	released, err := c.ListingRepo.ReleaseByOrderNo(payload.OrderNo)
	if err != nil {
		logger.Warnw("worker_reservation_release_failed", "order_no", payload.OrderNo, "error", err)
		return err
	}
	if released > 0 {
		logger.Infow("worker_reservation_released", "order_no", payload.OrderNo, "listings", released)
	}
	return nil
}
