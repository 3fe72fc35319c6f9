package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики брокера (процесс воркера).
var (
	// MessagesConsumed — обработанные входящие сообщения.
	// result: "ack" или "rejected".
	MessagesConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_broker_messages_consumed_total",
		Help: "Inbound messages dispatched to a consumer",
	}, []string{"queue", "message", "result"})

	// MessagesDiscarded — сообщения без зарегистрированного consumer.
	MessagesDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_broker_messages_discarded_total",
		Help: "Inbound messages discarded because no consumer is registered",
	}, []string{"queue", "message"})

	// MessagesPublished — исходящие сообщения. result: "ok" или "failed".
	MessagesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_broker_messages_published_total",
		Help: "Outbound messages handed to the transport",
	}, []string{"queue", "result"})

	// ConsumeDuration — время выполнения Consume.
	ConsumeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hive_broker_consume_duration_seconds",
		Help:    "Duration of consumer invocations",
		Buckets: prometheus.DefBuckets,
	}, []string{"queue", "message"})

	// OutboxDepth — сообщения, ожидающие публикации.
	OutboxDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hive_broker_outbox_depth",
		Help: "Outbound messages waiting for the publish loop",
	}, []string{"queue"})
)

// Метрики оркестратора.
var (
	// WorkerStartups — итоги попыток запуска. result: "running" или "failed".
	WorkerStartups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_orchestrator_worker_startups_total",
		Help: "Worker startup attempts by outcome",
	}, []string{"service", "result"})

	// HandshakeDuration — время от spawn до running.
	HandshakeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hive_orchestrator_handshake_duration_seconds",
		Help:    "Time from spawn to running",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"service"})

	// ControlMessagesIgnored — неожиданные или неизвестные управляющие сообщения.
	ControlMessagesIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_orchestrator_control_messages_ignored_total",
		Help: "Control messages that were out of order or unknown",
	})
)

// Метрики status API.
var (
	// HTTPRequests — запросы к API. route — шаблон маршрута.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_api_requests_total",
		Help: "Status API requests by route and status code",
	}, []string{"route", "status"})
)
