package service

import (
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/models"
)

// Notifier 订单确认通知契约。worker 消费确认任务时调用。
type Notifier interface {
	SendOrderConfirmation(order *models.Order, buyer *models.User) error
}

// LogNotifier 默认实现：只记日志。
// 邮件或站内信渠道通过实现 Notifier 接入。
type LogNotifier struct{}

// NewLogNotifier 创建日志通知器
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendOrderConfirmation 记录订单确认
func (n *LogNotifier) SendOrderConfirmation(order *models.Order, buyer *models.User) error {
	if order == nil {
		return nil
	}
	email := ""
	if buyer != nil {
		email = buyer.Email
	}
	logger.Infow("order_confirmation_sent",
		"order_no", order.OrderNo,
		"buyer_email", email,
		"total", order.TotalAmount.String(),
	)
	return nil
}
