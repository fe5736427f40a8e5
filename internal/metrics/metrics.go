package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics 结账链路指标
type CheckoutMetrics struct {
	PackagesTotal     *prometheus.CounterVec
	ReservationLost   prometheus.Counter
	CommitRetries     prometheus.Counter
	CommitDurationMS  *prometheus.HistogramVec
	ReleasesDeferred  prometheus.Counter
}

// NewCheckoutMetrics 注册并返回结账指标
func NewCheckoutMetrics() *CheckoutMetrics {
	packages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slabmarket",
		Subsystem: "checkout",
		Name:      "packages_total",
		Help:      "Total number of checkout packages by outcome.",
	}, []string{"outcome"})
	lost := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slabmarket",
		Subsystem: "checkout",
		Name:      "reservation_lost_total",
		Help:      "Listings lost to a concurrent buyer during reservation.",
	})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slabmarket",
		Subsystem: "checkout",
		Name:      "commit_retries_total",
		Help:      "Transient package commit retries.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "slabmarket",
		Subsystem: "checkout",
		Name:      "commit_duration_ms",
		Help:      "Package commit latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"outcome"})
	deferred := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slabmarket",
		Subsystem: "checkout",
		Name:      "releases_deferred_total",
		Help:      "Reservation releases handed off to the worker queue.",
	})

	prometheus.MustRegister(packages, lost, retries, duration, deferred)
	return &CheckoutMetrics{
		PackagesTotal:    packages,
		ReservationLost:  lost,
		CommitRetries:    retries,
		CommitDurationMS: duration,
		ReleasesDeferred: deferred,
	}
}

// NewHTTPDuration 注册并返回 HTTP 请求耗时直方图
func NewHTTPDuration() *prometheus.HistogramVec {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "slabmarket",
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds by route.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"method", "route", "status"})
	prometheus.MustRegister(duration)
	return duration
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
