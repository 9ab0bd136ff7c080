package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfoliocms/internal/pkg/response"
)

// RequestLogger writes one line per request and turns panics into a 500
// envelope. Errors attached with c.Error are logged with the request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("panic recovered",
					append(requestFields(c, start),
						zap.String("panic", fmt.Sprintf("%v", recovered)),
						zap.ByteString("stack", debug.Stack()),
					)...,
				)
				response.Error(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
				c.Abort()
				return
			}

			fields := requestFields(c, start)
			status := c.Writer.Status()
			switch {
			case len(c.Errors) > 0:
				log.Error("request failed", append(fields, zap.String("error", c.Errors.String()))...)
			case status >= http.StatusInternalServerError:
				log.Error("request failed", fields...)
			case status >= http.StatusBadRequest:
				log.Warn("request rejected", fields...)
			default:
				log.Info("request", fields...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time) []zap.Field {
	return []zap.Field{
		zap.Int("status", c.Writer.Status()),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("client_ip", c.ClientIP()),
		zap.Uint("admin_id", AdminID(c)),
		zap.String("request_id", c.GetString(ctxRequestID)),
		zap.Duration("latency", time.Since(start)),
	}
}
