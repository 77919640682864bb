package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal HTTP 请求计数
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "undangan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "undangan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ordersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "undangan_orders_created_total",
			Help: "Orders created, labeled by package tier and gateway outcome",
		},
		[]string{"tier", "outcome"},
	)

	paymentNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "undangan_payment_notifications_total",
			Help: "Payment gateway notifications, labeled by resulting order status",
		},
		[]string{"status", "transitioned"},
	)

	uploadQuotaRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "undangan_upload_quota_rejected_total",
			Help: "Uploads rejected by package quota",
		},
		[]string{"resource", "tier"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ordersCreatedTotal,
		paymentNotificationsTotal,
		uploadQuotaRejectedTotal,
	)
}

// RecordOrderCreated 记录下单结果，outcome 为 ok / gateway_failed
func RecordOrderCreated(tier, outcome string) {
	ordersCreatedTotal.WithLabelValues(tier, outcome).Inc()
}

// RecordPaymentNotification 记录支付通知处理结果
func RecordPaymentNotification(status string, transitioned bool) {
	label := "false"
	if transitioned {
		label = "true"
	}
	paymentNotificationsTotal.WithLabelValues(status, label).Inc()
}

// RecordQuotaRejected 记录配额拒绝
func RecordQuotaRejected(resource, tier string) {
	uploadQuotaRejectedTotal.WithLabelValues(resource, tier).Inc()
}
