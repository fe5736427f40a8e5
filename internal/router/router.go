package router

import (
	"fmt"
	"strings"

	"github.com/slabmarket-next/internal/cache"
	"github.com/slabmarket-next/internal/config"
	publichandlers "github.com/slabmarket-next/internal/http/handlers/public"
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/metrics"
	"github.com/slabmarket-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sm"
	}
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(c.HTTPDuration))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.POST("/cart-session", publicHandler.CreateCartSession)
			public.GET("/listings", publicHandler.ListListings)
			public.GET("/listings/:id", publicHandler.GetListing)
		}

		// 购物车接口：登录用户与匿名会话共用
		cart := apiV1.Group("/cart")
		cart.Use(OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey))
		cart.Use(CartSessionMiddleware())
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.DELETE("/items/:listing_id", publicHandler.RemoveCartItem)
			cart.POST("/items/save", publicHandler.SaveCartItemForLater)
			cart.POST("/items/activate", publicHandler.ActivateCartItem)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.POST("/cart/merge", CartSessionMiddleware(), publicHandler.MergeCart)
			user.POST("/checkout/preview", publicHandler.PreviewCheckout)
			user.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByIdentity), publicHandler.CommitCheckout)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:order_no", publicHandler.GetOrder)
			user.GET("/addresses", publicHandler.ListAddresses)
			user.POST("/addresses", publicHandler.CreateAddress)
			user.DELETE("/addresses/:id", publicHandler.DeleteAddress)
		}
	}

	// 指标
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
