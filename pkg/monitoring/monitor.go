package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// QuizSaveCounter 按结果统计测验保存：success / invalid / error
	QuizSaveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_saves_total",
			Help: "Quiz save requests by result",
		},
		[]string{"result"},
	)

	// QuizValidationFailures 按题型统计未通过校验的题目
	QuizValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_question_validation_failures_total",
			Help: "Questions rejected by validation, by question type",
		},
		[]string{"question_type"},
	)

	QuizCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_cache_lookups_total",
			Help: "Quiz content cache lookups by result",
		},
		[]string{"result"},
	)

	MediaUploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "media_upload_bytes_total",
			Help: "Bytes accepted by the media upload endpoint",
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(QuizSaveCounter)
		prometheus.MustRegister(QuizValidationFailures)
		prometheus.MustRegister(QuizCacheCounter)
		prometheus.MustRegister(MediaUploadBytes)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
