package service

import (
	"context"

	"github.com/slabmarket-next/internal/models"

	"github.com/google/uuid"
)

// PaymentCapture 支付扣款结果
type PaymentCapture struct {
	Reference string `json:"reference"` // 支付渠道回执号
}

// PaymentGateway 支付网关契约。每个包裹独立扣款一次。
// 拒付返回 ErrPaymentDeclined（不可重试），其余错误视为瞬时故障。
type PaymentGateway interface {
	Capture(ctx context.Context, orderNo string, amount models.Money, currency string) (*PaymentCapture, error)
}

// RecordingGateway 内置网关实现：不对接真实渠道，
// 直接生成回执号。真实渠道通过实现 PaymentGateway 接入。
type RecordingGateway struct{}

// NewRecordingGateway 创建内置网关
func NewRecordingGateway() *RecordingGateway {
	return &RecordingGateway{}
}

// Capture 记录一次扣款并返回回执
func (g *RecordingGateway) Capture(ctx context.Context, orderNo string, amount models.Money, currency string) (*PaymentCapture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &PaymentCapture{Reference: "cap_" + uuid.NewString()}, nil
}
