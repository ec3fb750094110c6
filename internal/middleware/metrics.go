package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/valuelife/portal/internal/metrics"
)

// HTTPMetrics counts every request against the collector, labeled by the
// matched route rather than the raw URL so path parameters don't explode
// the label space.
func HTTPMetrics(collector *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			collector.RecordHTTPRequest(
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			)
			return err
		}
	}
}
