package public

import (
	"errors"

	"github.com/slabmarket-next/internal/http/response"
	"github.com/slabmarket-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrIdentityRequired, code: response.CodeBadRequest, key: "error.identity_required"},
	{target: service.ErrListingNotFound, code: response.CodeNotFound, key: "error.listing_not_found"},
	{target: service.ErrListingUnavailable, code: response.CodeBadRequest, key: "error.listing_unavailable"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrCartFetchFailed, code: response.CodeInternal, key: "error.cart_fetch_failed"},
	{target: service.ErrMergeFailed, code: response.CodeInternal, key: "error.merge_failed"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrIdentityRequired, code: response.CodeUnauthorized, key: "error.identity_required"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, key: "error.address_required"},
	{target: service.ErrAddressInvalid, code: response.CodeBadRequest, key: "error.address_invalid"},
	{target: service.ErrListingUnavailable, code: response.CodeBadRequest, key: "error.listing_unavailable"},
	{target: service.ErrInvalidPackage, code: response.CodeBadRequest, key: "error.package_invalid"},
	{target: service.ErrCartFetchFailed, code: response.CodeInternal, key: "error.cart_fetch_failed"},
}

var listingErrorRules = []mappedHandlerError{
	{target: service.ErrListingNotFound, code: response.CodeNotFound, key: "error.listing_not_found"},
	{target: service.ErrListingFetchFailed, code: response.CodeInternal, key: "error.listing_fetch_failed"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrIdentityRequired, code: response.CodeUnauthorized, key: "error.identity_required"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, key: "error.order_fetch_failed"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrIdentityRequired, code: response.CodeUnauthorized, key: "error.identity_required"},
	{target: service.ErrAddressInvalid, code: response.CodeBadRequest, key: "error.address_invalid"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
}

func respondListingError(c *gin.Context, err error) {
	respondWithMappedError(c, err, listingErrorRules, response.CodeInternal, "error.listing_fetch_failed")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
}

func respondAddressError(c *gin.Context, err error) {
	respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "error.address_invalid")
}
