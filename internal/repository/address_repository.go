package repository

import (
	"errors"

	"github.com/slabmarket-next/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 地址簿数据访问接口
type AddressRepository interface {
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(userID, id uint) (int64, error)
	GetByIDAndUser(id, userID uint) (*models.Address, error)
	ListByUser(userID uint) ([]models.Address, error)
	WithTx(tx *gorm.DB) *GormAddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) *GormAddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// Create 创建地址
func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}

// Update 更新地址
func (r *GormAddressRepository) Update(address *models.Address) error {
	return r.db.Save(address).Error
}

// Delete 删除用户名下地址
func (r *GormAddressRepository) Delete(userID, id uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	return result.RowsAffected, result.Error
}

// GetByIDAndUser 获取用户名下地址，未找到返回 nil
func (r *GormAddressRepository) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// ListByUser 获取用户地址列表
func (r *GormAddressRepository) ListByUser(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default desc, updated_at desc").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}
