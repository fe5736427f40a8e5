package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/slabmarket-next/internal/constants"
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/metrics"
	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/queue"
	"github.com/slabmarket-next/internal/repository"

	"github.com/shopspring/decimal"
)

// PackageItem 包裹内单张卡的下单快照
type PackageItem struct {
	ListingID uint         `json:"listing_id"`
	CardID    uint         `json:"card_id"`
	GradeID   uint         `json:"grade_id"`
	Price     models.Money `json:"price"`
}

// Package 按卖家拆出的包裹。一个包裹提交成功即一笔订单。
type Package struct {
	OrderNo       string        `json:"order_no"`
	SellerID      uint          `json:"seller_id"`
	SellerName    string        `json:"seller_name"`
	Items         []PackageItem `json:"items"`
	Subtotal      models.Money  `json:"subtotal"`
	ShippingPrice models.Money  `json:"shipping_price"`
	TaxAmount     models.Money  `json:"tax_amount"`
	TotalAmount   models.Money  `json:"total_amount"`
	Currency      string        `json:"currency"`
}

// CheckoutPlan 结账计划：活跃购物车按卖家拆包后的全貌
type CheckoutPlan struct {
	Packages          []Package    `json:"packages"`
	Unavailable       []uint       `json:"unavailable"` // 拆包时已被抢走的商品
	GrandTotal        models.Money `json:"grand_total"`
	ShippingAddressID uint         `json:"shipping_address_id"`
	BillingAddressID  uint         `json:"billing_address_id"`
}

// CheckoutInput 结账输入
type CheckoutInput struct {
	BuyerID           uint
	ShippingAddressID uint
	BillingAddressID  uint
}

// CheckoutService 结账服务：拆包与提交协调
type CheckoutService struct {
	cartRepo    repository.CartRepository
	listingRepo repository.ListingRepository
	sellerRepo  repository.SellerRepository
	addressRepo repository.AddressRepository
	orderRepo   repository.OrderRepository
	gateway     PaymentGateway
	queueClient *queue.Client

	taxRate       decimal.Decimal
	commitRetries int
	currency      string
	metrics       *metrics.CheckoutMetrics
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(
	cartRepo repository.CartRepository,
	listingRepo repository.ListingRepository,
	sellerRepo repository.SellerRepository,
	addressRepo repository.AddressRepository,
	orderRepo repository.OrderRepository,
	gateway PaymentGateway,
	queueClient *queue.Client,
	taxRate string,
	commitRetries int,
) *CheckoutService {
	rate, err := decimal.NewFromString(strings.TrimSpace(taxRate))
	if err != nil || rate.IsNegative() {
		rate, _ = decimal.NewFromString(constants.DefaultTaxRate)
	}
	if commitRetries <= 0 {
		commitRetries = constants.DefaultCommitRetries
	}
	return &CheckoutService{
		cartRepo:      cartRepo,
		listingRepo:   listingRepo,
		sellerRepo:    sellerRepo,
		addressRepo:   addressRepo,
		orderRepo:     orderRepo,
		gateway:       gateway,
		queueClient:   queueClient,
		taxRate:       rate,
		commitRetries: commitRetries,
		currency:      constants.SiteCurrencyDefault,
	}
}

// Split 把活跃购物车按卖家拆成包裹。
// 包裹顺序按卖家在购物车中的首次出现顺序；
// 已被抢走的商品不进包裹，单独列入 Unavailable。
func (s *CheckoutService) Split(input CheckoutInput) (*CheckoutPlan, error) {
	if input.BuyerID == 0 {
		return nil, ErrIdentityRequired
	}
	if input.ShippingAddressID == 0 || input.BillingAddressID == 0 {
		return nil, ErrAddressRequired
	}
	for _, addressID := range []uint{input.ShippingAddressID, input.BillingAddressID} {
		address, err := s.addressRepo.GetByIDAndUser(addressID, input.BuyerID)
		if err != nil {
			logger.Errorw("checkout_address_lookup_failed", "address_id", addressID, "error", err)
			return nil, ErrCheckoutFailed
		}
		if address == nil {
			return nil, ErrAddressInvalid
		}
	}

	cartItems, err := s.cartRepo.ListByIdentity(input.BuyerID, "", false)
	if err != nil {
		logger.Errorw("checkout_cart_fetch_failed", "buyer_id", input.BuyerID, "error", err)
		return nil, ErrCartFetchFailed
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	listingIDs := make([]uint, 0, len(cartItems))
	for _, item := range cartItems {
		listingIDs = append(listingIDs, item.ListingID)
	}
	listings, err := s.listingRepo.ListByIDs(listingIDs)
	if err != nil {
		logger.Errorw("checkout_listing_fetch_failed", "buyer_id", input.BuyerID, "error", err)
		return nil, ErrCheckoutFailed
	}
	listingByID := make(map[uint]models.Listing, len(listings))
	for _, listing := range listings {
		listingByID[listing.ID] = listing
	}

	plan := &CheckoutPlan{
		Packages:          []Package{},
		Unavailable:       []uint{},
		ShippingAddressID: input.ShippingAddressID,
		BillingAddressID:  input.BillingAddressID,
	}
	packageIndex := make(map[uint]int)

	for _, item := range cartItems {
		listing, ok := listingByID[item.ListingID]
		if !ok || listing.Sold {
			plan.Unavailable = append(plan.Unavailable, item.ListingID)
			continue
		}
		idx, ok := packageIndex[listing.SellerID]
		if !ok {
			pkg := Package{
				OrderNo:  generateOrderNo(),
				SellerID: listing.SellerID,
				Items:    []PackageItem{},
				Currency: s.currency,
			}
			seller := listing.Seller
			if seller == nil {
				seller, err = s.sellerRepo.GetByID(listing.SellerID)
				if err != nil {
					logger.Errorw("checkout_seller_fetch_failed", "seller_id", listing.SellerID, "error", err)
					return nil, ErrCheckoutFailed
				}
			}
			if seller != nil {
				pkg.SellerName = seller.Name
				pkg.ShippingPrice = seller.ShippingPrice
			}
			plan.Packages = append(plan.Packages, pkg)
			idx = len(plan.Packages) - 1
			packageIndex[listing.SellerID] = idx
		}
		plan.Packages[idx].Items = append(plan.Packages[idx].Items, PackageItem{
			ListingID: listing.ID,
			CardID:    listing.CardID,
			GradeID:   listing.GradeID,
			Price:     listing.Price,
		})
	}

	if len(plan.Packages) == 0 {
		if len(plan.Unavailable) > 0 {
			return nil, ErrListingUnavailable
		}
		return nil, ErrCartEmpty
	}

	grand := decimal.Zero
	for i := range plan.Packages {
		pkg := &plan.Packages[i]
		subtotal := decimal.Zero
		for _, item := range pkg.Items {
			subtotal = subtotal.Add(item.Price.Decimal)
		}
		tax := subtotal.Mul(s.taxRate).Round(2)
		total := subtotal.Add(pkg.ShippingPrice.Decimal).Add(tax)

		pkg.Subtotal = models.NewMoneyFromDecimal(subtotal)
		pkg.TaxAmount = models.NewMoneyFromDecimal(tax)
		pkg.TotalAmount = models.NewMoneyFromDecimal(total)
		grand = grand.Add(total)
	}
	plan.GrandTotal = models.NewMoneyFromDecimal(grand)

	return plan, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("SM%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
