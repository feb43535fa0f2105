package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"store-admin/internal/tenant"
	"store-admin/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	userIDKey       = "user_id"
)

// TokenParser verifies an access token and returns the user it was issued to
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// requestLogger tags every request with an id and a logger carrying it
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)

		log := util.GetLogger().With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(util.WithLogger(c.Request.Context(), log))

		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// authMiddleware resolves the bearer token to a user and pins the tenant schema of that
// user on the request context
func authMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx := tenant.WithSchema(c.Request.Context(), tenant.FromUserID(userID))
		c.Request = c.Request.WithContext(ctx)
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// principal returns the tenant schema and user of an authenticated request
func principal(c *gin.Context) (tenant.Schema, int64) {
	schema, _ := tenant.FromContext(c.Request.Context())
	return schema, c.GetInt64(userIDKey)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
