package worker

import (
	"context"
	"errors"
	"time"

	"github.com/slabmarket-next/internal/config"
	"github.com/slabmarket-next/internal/logger"
	"github.com/slabmarket-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	// 孤儿预留巡检周期与判定阈值
	staleReservationSweepInterval = time.Minute
	staleReservationAge           = 15 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go s.runStaleReservationSweep(ctx)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runStaleReservationSweep 兜底巡检：进程崩溃等原因遗留的
// 无主预留，在超过阈值后释放回货架。
func (s *Service) runStaleReservationSweep(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	runOnce := func() {
		if err := s.consumer.SweepStaleReservations(time.Now().Add(-staleReservationAge)); err != nil {
			logger.Warnw("worker_stale_reservation_sweep_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(staleReservationSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
