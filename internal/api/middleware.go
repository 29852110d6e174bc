package api

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/metrics"
)

const requestIDKey = "request_id"

// Middleware contains HTTP middleware functions
type Middleware struct {
	logger *logrus.Logger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(logger *logrus.Logger) *Middleware {
	return &Middleware{
		logger: logger,
	}
}

// RequestID tags each request with an ID, reusing the X-Request-ID header when present
func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs HTTP requests
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		statusCode := c.Writer.Status()
		entry := m.logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        path,
			"status":      statusCode,
			"duration":    time.Since(start).String(),
			"request_id":  c.GetString(requestIDKey),
			"remote_addr": c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})

		switch {
		case statusCode >= 500:
			entry.Error("HTTP request")
		case statusCode >= 400:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}

// Recover recovers from panics
func (m *Middleware) Recover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				m.logger.WithFields(logrus.Fields{
					"error":      err,
					"request_id": c.GetString(requestIDKey),
				}).Error("Panic recovered")

				WriteError(c, ErrInternalServer)
			}
		}()

		c.Next()
	}
}

// CORS allows the configured origins. "*" allows any origin without credentials;
// an empty list leaves only same-origin requests.
func (m *Middleware) CORS(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        24 * time.Hour,
	}

	if slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}

// Metrics records request counts and latencies by route template
func (m *Middleware) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.GetMetricsCollector().RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
