package queue

import (
	"encoding/json"

	"github.com/slabmarket-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmation 订单确认通知任务
	TaskOrderConfirmation = constants.TaskOrderConfirmation
	// TaskReservationRelease 预留释放兜底任务
	TaskReservationRelease = constants.TaskReservationRelease
)

// OrderConfirmationPayload 订单确认任务载荷
type OrderConfirmationPayload struct {
	OrderNo string `json:"order_no"`
	BuyerID uint   `json:"buyer_id"`
}

// ReservationReleasePayload 预留释放任务载荷
type ReservationReleasePayload struct {
	OrderNo string `json:"order_no"`
}

// NewOrderConfirmationTask 创建订单确认任务
func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, body), nil
}

// NewReservationReleaseTask 创建预留释放任务
func NewReservationReleaseTask(payload ReservationReleasePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReservationRelease, body), nil
}
