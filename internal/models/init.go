package models

import (
	"github.com/slabmarket-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultUser 初始化默认演示买家账号
func InitDefaultUser(email, password string) error {
	var count int64
	DB.Model(&User{}).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "demo@slabmarket.local"
	}
	if password == "" {
		password = "demo123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Demo Buyer",
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	logger.Warnw("default_user_created", "email", email, "password_hidden", password != "demo123")
	return nil
}
