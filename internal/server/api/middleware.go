// Package api exposes catalogd's HTTP surface: the public auth and catalog
// endpoints, the bearer-protected user endpoints and the X-API-Key admin
// endpoints. Handlers translate service sentinels into statuses; the
// {"error": "..."} bodies are part of the client contract.
package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"puzzlearchive/internal/common"
	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/metrics"
	"puzzlearchive/internal/server/auth"
)

const userIDKey = "user_id"

// Auth validates the bearer access token and stores the user id on the
// context. An expired token answers with the exact "token expired" body the
// client's refresh-and-retry path matches on.
func Auth(secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, common.BearerPrefix)

		userID, err := auth.GetUserIDFromToken(tokenString, secretKey)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrTokenExpired.Error()})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			}
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the user id stored by Auth.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get(userIDKey)
	id, _ := userID.(string)
	return id
}

// AdminAuth guards the admin endpoints with a shared API key.
func AdminAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(common.AdminAPIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Metrics records the per-endpoint request counter and latency histogram.
// The route template is used as the endpoint label to keep cardinality
// bounded.
func Metrics(recorder metrics.HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		recorder.IncRequestsTotal(endpoint, c.Writer.Status())
		recorder.ObserveRequestDuration(endpoint, time.Since(start))
	}
}

// RequestLogger logs one line per handled request.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
