package repository

import (
	"errors"

	"github.com/slabmarket-next/internal/models"

	"gorm.io/gorm"
)

// OrderListFilter 订单列表过滤条件
type OrderListFilter struct {
	BuyerID  uint
	SellerID uint
	Status   string
	Page     int
	PageSize int
}

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	CreateWithItems(order *models.Order, items []models.OrderItem) error
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByOrderNoAndBuyer(orderNo string, buyerID uint) (*models.Order, error)
	ListByBuyer(filter OrderListFilter) ([]models.Order, int64, error)
	ExistsByOrderNo(orderNo string) (bool, error)
	UpdateStatus(orderNo string, status string) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// CreateWithItems 创建订单与明细。按订单号幂等：
// 同号订单已存在时直接视为成功，不重复写入。
func (r *GormOrderRepository) CreateWithItems(order *models.Order, items []models.OrderItem) error {
	if order == nil {
		return nil
	}
	var existing models.Order
	err := r.db.Where("order_no = ?", order.OrderNo).First(&existing).Error
	if err == nil {
		order.ID = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByOrderNo 根据订单号获取订单，未找到返回 nil
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNoAndBuyer 获取买家订单详情
func (r *GormOrderRepository) GetByOrderNoAndBuyer(orderNo string, buyerID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Preload("Items.Listing").
		Where("order_no = ? AND buyer_id = ?", orderNo, buyerID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByBuyer 获取买家订单列表
func (r *GormOrderRepository) ListByBuyer(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("buyer_id = ?", filter.BuyerID)
	if filter.SellerID > 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Preload("Items").Order("order_date desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ExistsByOrderNo 判断订单号是否已落库
func (r *GormOrderRepository) ExistsByOrderNo(orderNo string) (bool, error) {
	if orderNo == "" {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.Order{}).Where("order_no = ?", orderNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(orderNo string, status string) error {
	return r.db.Model(&models.Order{}).Where("order_no = ?", orderNo).Update("status", status).Error
}
