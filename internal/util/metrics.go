package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoresProvisionedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stores_provisioned_total",
		Help: "Total number of stores provisioned",
	})

	StoreProvisioningFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_provisioning_failed_total",
		Help: "Total number of failed store provisionings",
	}, []string{"reason"})

	TogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toggles_total",
		Help: "Total number of boolean flips by entity and field",
	}, []string{"entity", "field"})

	ConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "referential_conflicts_total",
		Help: "Total number of writes rejected by referencing rows",
	}, []string{"entity"})

	TxRollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_rollbacks_total",
		Help: "Total number of rolled back request transactions",
	}, []string{"operation"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders checked out from carts",
	})

	WebhookRegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_registrations_total",
		Help: "Total number of bot webhook registrations by outcome",
	}, []string{"outcome"})

	WebhookRegistrationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "webhook_registration_latency_seconds",
		Help:    "Latency of bot webhook registration calls",
		Buckets: prometheus.DefBuckets,
	})

	BotUpdatesRelayedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_relayed_total",
		Help: "Total number of bot updates relayed to the broker",
	}, []string{"status"})

	BotTokenCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_token_cache_total",
		Help: "Bot token lookups by cache result",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
