package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"lojaConforto/pkg/metrics"
)

// Metrics records per-route request latency.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			metrics.RequestLatency.WithLabelValues(c.Path()).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
