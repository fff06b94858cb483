package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/s0up4200/moviefinder/server"
)

var port int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP relay",
	Long: `Start the HTTP server exposing:

  GET /                 liveness message
  GET /api/search       ?title=<title>, OMDb title search
  GET /api/movies/:id   OMDb lookup by IMDb identifier
  GET /metrics          Prometheus metrics (unless disabled)`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("port") {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		cfg.Server.Port = port
	}

	gin.SetMode(gin.ReleaseMode)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	handler := server.NewHandler(omdbClient, logger)
	router := server.NewRouter(handler, logger, metricsPath)
	srv := server.New(cfg.Server.Addr(), router, cfg.Server.ShutdownTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Int("port", cfg.Server.Port).
		Str("version", version).
		Bool("metrics", cfg.Metrics.Enabled).
		Msgf("Server is running on port %d", cfg.Server.Port)

	return srv.Run(ctx)
}
