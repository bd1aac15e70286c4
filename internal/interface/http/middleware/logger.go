package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/response"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// slowRequest 超过该耗时记为慢请求
const slowRequest = 3 * time.Second

// Logger 请求日志中间件
// 1. 沿用客户端传入的X-Request-ID，没有则生成
// 2. 请求ID写入context，用例日志通过logger.Ctx自动带上
// 3. 记录方法、路径、状态码、耗时、客户端IP
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		log := logger.Ctx(c.Request.Context())
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		case latency > slowRequest:
			log.Warn("slow request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery panic转为500，并记录堆栈
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Ctx(c.Request.Context()).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"))
		response.Error(c, apperrors.ErrInternal)
		c.Abort()
	})
}
