package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = "en"

var bundles = map[string]map[string]string{
	"en": {
		"error.bad_request": "invalid request",
		"error.unauthorized": "unauthorized",
		"error.auth_header_missing": "authorization header missing",
		"error.auth_header_invalid": "authorization header invalid",
		"error.token_invalid": "token invalid",
		"error.user_disabled": "account disabled",
		"error.jwt_secret_missing": "jwt secret missing",
		"error.identity_required": "a user or cart session identity is required",
		"error.session_invalid": "cart session id invalid",
		"error.user_id_invalid": "user id missing",
		"error.user_id_type_invalid": "user id invalid",
		"error.listing_not_found": "listing not found",
		"error.listing_unavailable": "listing is no longer available",
		"error.listing_fetch_failed": "failed to load listing",
		"error.cart_item_not_found": "cart item not found",
		"error.cart_item_invalid": "cart item invalid",
		"error.cart_fetch_failed": "failed to load cart",
		"error.cart_update_failed": "failed to update cart",
		"error.cart_empty": "cart is empty",
		"error.merge_failed": "failed to merge carts",
		"error.address_required": "shipping and billing addresses are required",
		"error.address_invalid": "address does not belong to this account",
		"error.package_invalid": "checkout package invalid",
		"error.payment_declined": "payment was declined",
		"error.checkout_failed": "checkout failed",
		"error.order_not_found": "order not found",
		"error.order_fetch_failed": "failed to load order",
		"error.rate_limited": "too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "rate limiter unavailable",
		"error.internal": "internal error",
	},
	"zh-CN": {
		"error.bad_request": "请求参数错误",
		"error.unauthorized": "未授权",
		"error.auth_header_missing": "缺少认证头",
		"error.auth_header_invalid": "认证头格式错误",
		"error.token_invalid": "令牌无效",
		"error.user_disabled": "账号已停用",
		"error.jwt_secret_missing": "JWT 密钥未配置",
		"error.identity_required": "需要用户或购物车会话身份",
		"error.session_invalid": "购物车会话 ID 无效",
		"error.user_id_invalid": "缺少用户 ID",
		"error.user_id_type_invalid": "用户 ID 无效",
		"error.listing_not_found": "商品不存在",
		"error.listing_unavailable": "商品已售出",
		"error.listing_fetch_failed": "商品加载失败",
		"error.cart_item_not_found": "购物车条目不存在",
		"error.cart_item_invalid": "购物车项无效",
		"error.cart_fetch_failed": "购物车加载失败",
		"error.cart_update_failed": "购物车更新失败",
		"error.cart_empty": "购物车为空",
		"error.merge_failed": "购物车合并失败",
		"error.address_required": "需要收货与账单地址",
		"error.address_invalid": "地址不属于当前账号",
		"error.package_invalid": "结算包无效",
		"error.payment_declined": "支付被拒绝",
		"error.checkout_failed": "结算失败",
		"error.order_not_found": "订单不存在",
		"error.order_fetch_failed": "订单加载失败",
		"error.rate_limited": "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.internal": "服务内部错误",
	},
}

// T 按语言取文案，未命中回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if bundle, ok := bundles[locale]; ok {
		if msg, ok := bundle[key]; ok {
			return msg
		}
	}
	if msg, ok := bundles[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 取文案并格式化占位参数
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 从请求解析语言（query 优先于 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := strings.TrimSpace(c.Query("locale")); locale != "" {
		return normalizeLocale(locale)
	}
	accept := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if accept == "" {
		return DefaultLocale
	}
	first := strings.TrimSpace(strings.Split(accept, ",")[0])
	if idx := strings.Index(first, ";"); idx >= 0 {
		first = first[:idx]
	}
	return normalizeLocale(first)
}

func normalizeLocale(locale string) string {
	if _, ok := bundles[locale]; ok {
		return locale
	}
	lower := strings.ToLower(locale)
	if strings.HasPrefix(lower, "zh") {
		return "zh-CN"
	}
	return DefaultLocale
}
