package service

import (
	"strings"

	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/repository"
)

// AddressInput 地址创建/更新输入
type AddressInput struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// AddressService 地址簿服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// List 获取用户地址列表
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	if userID == 0 {
		return nil, ErrIdentityRequired
	}
	addresses, err := s.addressRepo.ListByUser(userID)
	if err != nil {
		logger.Errorw("address_list_failed", "user_id", userID, "error", err)
		return nil, ErrAddressInvalid
	}
	return addresses, nil
}

// Create 新增地址
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	if userID == 0 {
		return nil, ErrIdentityRequired
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Line1) == "" ||
		strings.TrimSpace(input.City) == "" || strings.TrimSpace(input.PostalCode) == "" {
		return nil, ErrAddressInvalid
	}
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = "US"
	}
	address := &models.Address{
		UserID:     userID,
		Name:       strings.TrimSpace(input.Name),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      strings.TrimSpace(input.Line2),
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    country,
		IsDefault:  input.IsDefault,
	}
	if err := s.addressRepo.Create(address); err != nil {
		logger.Errorw("address_create_failed", "user_id", userID, "error", err)
		return nil, ErrAddressInvalid
	}
	return address, nil
}

// Delete 删除地址
func (s *AddressService) Delete(userID, addressID uint) error {
	if userID == 0 {
		return ErrIdentityRequired
	}
	affected, err := s.addressRepo.Delete(userID, addressID)
	if err != nil {
		logger.Errorw("address_delete_failed", "address_id", addressID, "error", err)
		return ErrAddressInvalid
	}
	if affected == 0 {
		return ErrAddressInvalid
	}
	return nil
}
