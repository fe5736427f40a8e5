package service

import "errors"

// 服务层业务错误，handler 层据此映射状态码与 i18n 文案
var (
	ErrIdentityRequired    = errors.New("cart identity required")
	ErrListingNotFound     = errors.New("listing not found")
	ErrListingFetchFailed  = errors.New("failed to fetch listing")
	ErrListingUnavailable  = errors.New("listing unavailable")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCartFetchFailed     = errors.New("failed to fetch cart")
	ErrCartUpdateFailed    = errors.New("failed to update cart")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrMergeFailed         = errors.New("failed to merge cart")
	ErrAddressRequired     = errors.New("shipping and billing address required")
	ErrAddressInvalid      = errors.New("address not found or not owned by buyer")
	ErrInvalidPackage      = errors.New("invalid package")
	ErrPaymentDeclined     = errors.New("payment declined")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderFetchFailed    = errors.New("failed to fetch order")
	ErrCheckoutFailed      = errors.New("checkout failed")
)
