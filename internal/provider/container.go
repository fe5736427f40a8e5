package provider

import (
	"github.com/slabmarket-next/internal/cache"
	"github.com/slabmarket-next/internal/config"
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/metrics"
	"github.com/slabmarket-next/internal/models"
	"github.com/slabmarket-next/internal/queue"
	"github.com/slabmarket-next/internal/repository"
	"github.com/slabmarket-next/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

// Container 依赖注入容器
type Container struct {
	Config          *config.Config
	QueueClient     *queue.Client
	CheckoutMetrics *metrics.CheckoutMetrics
	HTTPDuration    *prometheus.HistogramVec

	// Repositories
	UserRepo    repository.UserRepository
	AddressRepo repository.AddressRepository
	SellerRepo  repository.SellerRepository
	ListingRepo repository.ListingRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository

	// Services
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
	ListingService  *service.ListingService
	AddressService  *service.AddressService
	PaymentGateway  service.PaymentGateway
	Notifier        service.Notifier
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}
	if queueClient == nil {
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:          cfg,
		QueueClient:     queueClient,
		CheckoutMetrics: metrics.NewCheckoutMetrics(),
		HTTPDuration:    metrics.NewHTTPDuration(),
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.SellerRepo = repository.NewSellerRepository(db)
	c.ListingRepo = repository.NewListingRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	c.PaymentGateway = service.NewRecordingGateway()
	c.Notifier = service.NewLogNotifier()

	c.CartService = service.NewCartService(c.CartRepo, c.ListingRepo)
	c.ListingService = service.NewListingService(c.ListingRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo)
	c.CheckoutService = service.NewCheckoutService(
		c.CartRepo,
		c.ListingRepo,
		c.SellerRepo,
		c.AddressRepo,
		c.OrderRepo,
		c.PaymentGateway,
		c.QueueClient,
		c.Config.Checkout.TaxRate,
		c.Config.Checkout.CommitRetries,
	)
	c.CheckoutService.SetMetrics(c.CheckoutMetrics)
}
