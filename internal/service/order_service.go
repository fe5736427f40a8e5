package service

import (
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/repository"
)

// OrderService 订单查询服务
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetByOrderNo 获取买家订单详情
func (s *OrderService) GetByOrderNo(buyerID uint, orderNo string) (*models.Order, error) {
	if buyerID == 0 {
		return nil, ErrIdentityRequired
	}
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNoAndBuyer(orderNo, buyerID)
	if err != nil {
		logger.Errorw("order_fetch_failed", "order_no", orderNo, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListByBuyer 获取买家订单列表
func (s *OrderService) ListByBuyer(buyerID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	if buyerID == 0 {
		return nil, 0, ErrIdentityRequired
	}
	orders, total, err := s.orderRepo.ListByBuyer(repository.OrderListFilter{
		BuyerID:  buyerID,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		logger.Errorw("order_list_failed", "buyer_id", buyerID, "error", err)
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}
