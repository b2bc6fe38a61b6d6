package middleware

import (
	"time"

	"orderdesk/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger attaches a request-scoped zap logger to the request context and logs one line
// per request once the handler returns. Run it after echo's RequestID middleware.
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = req.Header.Get(echo.HeaderXRequestID)
			}
			log := base.With(zap.String("request_id", requestID))
			c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), log)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			}
			switch {
			case status >= 500:
				log.Error("request failed", fields...)
			case status >= 400:
				log.Warn("request rejected", fields...)
			default:
				log.Info("request handled", fields...)
			}
			return nil
		}
	}
}
