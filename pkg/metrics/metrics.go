// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求总数、耗时分布、处理中请求数（由middleware.Metrics记录）
//   - 图书业务：各命令的执行结果、批量删除的实际行数、公开列表接口降级次数
//   - 消息：领域事件发布结果
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 路径标签使用gin的路由模板（/admin/books/:id），避免高基数。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 命令执行结果标签
const (
	ResultSuccess      = "success"
	ResultInvalid      = "invalid"
	ResultUnauthorized = "unauthorized"
	ResultError        = "error"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// BookCommandsTotal 图书命令执行次数
	// 标签：command（create/update/delete）、result
	BookCommandsTotal *prometheus.CounterVec

	// BooksDeletedTotal 实际删除的图书行数
	BooksDeletedTotal prometheus.Counter

	// BookListFallbackTotal 公开列表查询失败后返回空结果的次数
	BookListFallbackTotal prometheus.Counter

	// MessagesPublishedTotal 领域事件发布次数
	// 标签：routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化并注册所有指标到默认Registry
// 可以重复调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 单表CRUD，耗时集中在毫秒级
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookCommandsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_commands_total",
				Help: "图书命令执行次数",
			},
			[]string{"command", "result"},
		)

		BooksDeletedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "books_deleted_total",
				Help: "实际删除的图书行数",
			},
		)

		BookListFallbackTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "book_list_fallback_total",
				Help: "公开列表查询失败后降级为空结果的次数",
			},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "领域事件发布次数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// RecordCommand 记录一次图书命令的执行结果
func RecordCommand(command, result string) {
	InitMetrics()
	BookCommandsTotal.WithLabelValues(command, result).Inc()
}

// AddDeleted 累加实际删除的行数
func AddDeleted(n int64) {
	InitMetrics()
	if n > 0 {
		BooksDeletedTotal.Add(float64(n))
	}
}

// IncListFallback 记录一次公开列表降级
func IncListFallback() {
	InitMetrics()
	BookListFallbackTotal.Inc()
}

// RecordPublish 记录一次事件发布
func RecordPublish(routingKey string, err error) {
	InitMetrics()
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}
