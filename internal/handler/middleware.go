package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shivarya/splitcash/internal/auth"
	"github.com/shivarya/splitcash/pkg/response"
)

// userIDKey is the gin context key the auth middleware stores the
// authenticated user ID under.
const userIDKey = "user_id"

// LoggerMiddleware logs one structured line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		slog.Info("HTTP request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// RecoveryMiddleware turns panics into 500 responses instead of crashing
// the process.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Panic recovered", "panic", r, "path", c.Request.URL.Path)
				c.Abort()
				response.Fail(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}

// CORSMiddleware allows browser clients from any origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequireAuth validates the bearer token and stores the caller's user ID
// in the context.
func RequireAuth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Abort()
			response.FromError(c, auth.ErrMissingToken)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			c.Abort()
			response.FromError(c, auth.ErrInvalidToken)
			return
		}

		claims, err := jwt.Validate(token)
		if err != nil {
			c.Abort()
			response.FromError(c, err)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// currentUserID returns the authenticated user ID set by RequireAuth.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
