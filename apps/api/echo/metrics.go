package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schooldash",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Handled HTTP requests by route, method & status code.",
	}, []string{"route", "method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "schooldash",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latencies by route & method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// requestMetrics records every request once the error handler has written the response.
func requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		if err != nil {
			ctx.Error(err)
		}

		route, method := ctx.Path(), ctx.Request().Method
		requestsTotal.WithLabelValues(route, method, strconv.Itoa(ctx.Response().Status)).Inc()
		requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return nil
	}
}
