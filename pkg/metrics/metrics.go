// Package metrics 定义Prometheus监控指标
//
// 指标分三类：
//  1. HTTP请求指标（中间件记录）
//  2. 借阅业务指标（借出、归还、罚款、失败原因）
//  3. 基础设施指标（缓存命中、熔断器、Saga、消息发布）
//
// 所有指标注册到默认Registry，通过 /metrics 暴露。
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数，标签：method、path、status
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration HTTP请求耗时（秒）
	HTTPRequestDuration *prometheus.HistogramVec
	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// LoansBorrowedTotal 借出总数
	LoansBorrowedTotal prometheus.Counter
	// LoansReturnedTotal 归还总数，标签：late（true/false）
	LoansReturnedTotal *prometheus.CounterVec
	// FinesAmountTotal 产生的罚款总额
	FinesAmountTotal prometheus.Counter
	// OperationFailuresTotal 业务操作失败数，标签：operation、kind
	OperationFailuresTotal *prometheus.CounterVec

	// BookCacheRequests 图书详情缓存，标签：result（hit/miss/error）
	BookCacheRequests *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态 0=CLOSED 1=OPEN 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec
	// CircuitBreakerRequests 熔断器请求数，标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// SagaExecutionsTotal Saga执行总数，标签：result
	SagaExecutionsTotal *prometheus.CounterVec
	// SagaCompensationsTotal Saga补偿次数
	SagaCompensationsTotal prometheus.Counter

	// MessagesPublishedTotal 领域事件发布数，标签：routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标（可重复调用）
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		}, []string{"method", "path", "status"})

		HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		}, []string{"method", "path"})

		HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		})

		LoansBorrowedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "library_loans_borrowed_total",
			Help: "借出总数",
		})

		LoansReturnedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "library_loans_returned_total",
			Help: "归还总数",
		}, []string{"late"})

		FinesAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "library_fines_amount_total",
			Help: "逾期罚款累计金额",
		})

		OperationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "library_operation_failures_total",
			Help: "业务操作失败数",
		}, []string{"operation", "kind"})

		BookCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "library_book_cache_requests_total",
			Help: "图书详情缓存请求数",
		}, []string{"result"})

		CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		}, []string{"name"})

		CircuitBreakerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		}, []string{"name", "result"})

		SagaExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "saga_executions_total",
			Help: "Saga执行总数",
		}, []string{"result"})

		SagaCompensationsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Saga补偿执行总数",
		})

		MessagesPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mq_messages_published_total",
			Help: "消息发布总数",
		}, []string{"routing_key", "result"})
	})
}

// =========================================
// 记录函数（首次调用时自动注册）
// =========================================

// LoanBorrowed 记录一次借出
func LoanBorrowed() {
	InitMetrics()
	LoansBorrowedTotal.Inc()
}

// LoanReturned 记录一次归还
func LoanReturned(late bool) {
	InitMetrics()
	LoansReturnedTotal.WithLabelValues(strconv.FormatBool(late)).Inc()
}

// FineCreated 记录新产生的罚款
func FineCreated(amount int64) {
	InitMetrics()
	FinesAmountTotal.Add(float64(amount))
}

// OperationFailed 记录业务操作失败
func OperationFailed(operation, kind string) {
	InitMetrics()
	OperationFailuresTotal.WithLabelValues(operation, kind).Inc()
}

// BookCache 记录缓存结果（hit/miss/error）
func BookCache(result string) {
	InitMetrics()
	BookCacheRequests.WithLabelValues(result).Inc()
}

// BreakerState 记录熔断器状态
func BreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// BreakerRequest 记录熔断器请求结果
func BreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SagaExecuted 记录Saga执行结果
func SagaExecuted(success bool) {
	InitMetrics()
	result := "success"
	if !success {
		result = "failure"
	}
	SagaExecutionsTotal.WithLabelValues(result).Inc()
}

// SagaCompensated 记录一次补偿
func SagaCompensated() {
	InitMetrics()
	SagaCompensationsTotal.Inc()
}

// MessagePublished 记录消息发布结果
func MessagePublished(routingKey string, err error) {
	InitMetrics()
	result := "success"
	if err != nil {
		result = "failure"
	}
	MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}
