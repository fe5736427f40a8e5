package main

import (
	"fmt"

	"github.com/slabmarket-next/internal/config"
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认买家
	if err := models.InitDefaultUser("buyer@example.com", "password123"); err != nil {
		stdLog.Fatalf("Failed to seed default user: %v", err)
	}

	// 卖家
	sellers := []models.Seller{
		{Name: "Summit Slabs", Email: "summit@example.com", ShippingPrice: money("5.00")},
		{Name: "Vault Cards", Email: "vault@example.com", ShippingPrice: money("8.50")},
		{Name: "Gem State Breaks", Email: "gemstate@example.com", ShippingPrice: money("6.00")},
	}
	for i := range sellers {
		if err := models.DB.Where("name = ?", sellers[i].Name).
			FirstOrCreate(&sellers[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed seller %s: %v", sellers[i].Name, err)
		}
	}

	// 卡片目录
	cards := []models.Card{
		{Name: "Charizard", SetName: "Base Set", CardNumber: "4/102", Year: 1999},
		{Name: "Pikachu Illustrator", SetName: "Promo", CardNumber: "PR-1", Year: 1998},
		{Name: "Mickey Mantle", SetName: "Topps", CardNumber: "311", Year: 1952},
		{Name: "Michael Jordan", SetName: "Fleer", CardNumber: "57", Year: 1986},
	}
	for i := range cards {
		if err := models.DB.Where("name = ? AND set_name = ?", cards[i].Name, cards[i].SetName).
			FirstOrCreate(&cards[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed card %s: %v", cards[i].Name, err)
		}
	}

	// 评级
	grades := []models.Grade{
		{Company: "PSA", Score: "10", Label: "Gem Mint", CertNo: "82014551"},
		{Company: "PSA", Score: "9", Label: "Mint", CertNo: "82014552"},
		{Company: "BGS", Score: "9.5", Label: "Gem Mint", CertNo: "0012677432"},
		{Company: "CGC", Score: "8.5", Label: "NM/Mint+", CertNo: "4172209001"},
	}
	for i := range grades {
		if err := models.DB.Where("company = ? AND cert_no = ?", grades[i].Company, grades[i].CertNo).
			FirstOrCreate(&grades[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed grade %s %s: %v", grades[i].Company, grades[i].Score, err)
		}
	}

	// 在售商品：每张评级卡唯一对应一条 listing
	listings := []models.Listing{
		{SellerID: sellers[0].ID, CardID: cards[0].ID, GradeID: grades[0].ID, Price: money("4200.00")},
		{SellerID: sellers[0].ID, CardID: cards[3].ID, GradeID: grades[1].ID, Price: money("780.00")},
		{SellerID: sellers[1].ID, CardID: cards[1].ID, GradeID: grades[2].ID, Price: money("99500.00")},
		{SellerID: sellers[1].ID, CardID: cards[2].ID, GradeID: grades[3].ID, Price: money("15600.00")},
		{SellerID: sellers[2].ID, CardID: cards[3].ID, GradeID: grades[2].ID, Price: money("1150.00")},
	}
	for i := range listings {
		if err := models.DB.Where("seller_id = ? AND card_id = ? AND grade_id = ?",
			listings[i].SellerID, listings[i].CardID, listings[i].GradeID).
			FirstOrCreate(&listings[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed listing: %v", err)
		}
	}

	fmt.Printf("Seed done: %d sellers, %d cards, %d grades, %d listings\n",
		len(sellers), len(cards), len(grades), len(listings))
}

func money(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}
