// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduquiz_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eduquiz_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	QuizzesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduquiz_quizzes_completed_total",
			Help: "Finished quiz attempts, by whether the timer ran out",
		},
		[]string{"timed_out"},
	)

	QuizScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eduquiz_quiz_score_percent",
			Help:    "Distribution of quiz scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	MaterialsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eduquiz_materials_completed_total",
			Help: "Course PDFs read through to the last page for the first time",
		},
	)

	CoursesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eduquiz_courses_created_total",
			Help: "Courses created",
		},
	)
)

// ObserveQuiz records one finished attempt.
func ObserveQuiz(score int, timedOut bool) {
	QuizzesCompleted.WithLabelValues(strconv.FormatBool(timedOut)).Inc()
	QuizScores.Observe(float64(score))
}

// Middleware counts requests per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
