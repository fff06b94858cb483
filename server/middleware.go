package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/moviefinder/logging"
	"github.com/s0up4200/moviefinder/metrics"
)

const (
	headerRequestID = "X-Request-ID"

	// unmatchedRoute labels requests that hit no registered route, keeping
	// the metrics cardinality bounded.
	unmatchedRoute = "unmatched"
)

// RequestLogger tags every request with an id, taken from X-Request-ID when
// the caller sent one, and echoes it back. Handlers find a logger carrying
// that id through logging.Ctx. Once the handler returns, the request is
// counted in the HTTP metrics and logged once at info level.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := requestID(c)
		c.Header(headerRequestID, id)

		reqLogger := logger.With().
			Str(logging.FieldRequestID, id).
			Str(logging.FieldMethod, c.Request.Method).
			Str(logging.FieldPath, c.Request.URL.Path).
			Str(logging.FieldClientIP, c.ClientIP()).
			Logger()
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), reqLogger))

		c.Next()

		took := time.Since(start)
		status := c.Writer.Status()
		route := routeLabel(c)

		metrics.ObserveRequest(c.Request.Method, route, status, took)

		reqLogger.Info().
			Str(logging.FieldRoute, route).
			Int(logging.FieldStatus, status).
			Float64(logging.FieldLatency, float64(took.Microseconds())/1000).
			Msg("request completed")
	}
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader(headerRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
