package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter builds the Gin engine serving the movie API. A non-empty
// metricsPath also exposes the Prometheus registry there.
//
// Routes are matched against the escaped path so an identifier may carry an
// encoded slash, and a trailing slash is served rather than redirected.
func NewRouter(h *Handler, logger zerolog.Logger, metricsPath string) *gin.Engine {
	r := gin.New()
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	if metricsPath != "" {
		r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	h.RegisterRoutes(r)

	return r
}
