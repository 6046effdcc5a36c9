package api

import (
	svcmetrics "BaseballMVP/internal/service/metrics"
	"BaseballMVP/internal/service/ratelimit"
	xhttp "BaseballMVP/pkg/http"

	"github.com/labstack/echo/v4"
)

// RateLimit rejects requests once the caller's bucket is empty.
func RateLimit(l *ratelimit.Limiter, endpoint string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				svcmetrics.RateLimited.WithLabelValues(endpoint).Inc()
				return xhttp.TooManyRequestsResponse(c)
			}
			return next(c)
		}
	}
}
