package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/moviefinder/config"
	"github.com/s0up4200/moviefinder/logging"
	"github.com/s0up4200/moviefinder/omdb"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	cfgFile    string
	envFile    string
	logLevel   string
	cfg        *config.Config
	logger     zerolog.Logger
	omdbClient *omdb.Client
)

// rootCmd represents the base command. Without a subcommand it serves the API.
var rootCmd = &cobra.Command{
	Use:   "moviefinder",
	Short: "A small HTTP relay in front of the OMDb movie API",
	Long: `moviefinder serves a minimal JSON API that forwards title searches and
IMDb identifier lookups to OMDb and returns OMDb's response unchanged.

Run without a subcommand to start the server. The OMDb API key is read from
OMDB_API_KEY (a .env file in the working directory is honoured).`,
	PersistentPreRunE: initializeApp,
	RunE:              runServe,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// SetVersion records build metadata for the version command and user agent.
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default is ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging level (debug, info, warn, error)")

	rootCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(movieCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and builds the logger and OMDb client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(config.Options{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}

	logger = logging.New(cfg.Logging, os.Stderr)

	if cfg.OMDb.APIKey == "" {
		logger.Warn().Msg("OMDB_API_KEY is not set, OMDb will reject every request")
	}

	omdbClient, err = omdb.NewClient(cfg.OMDb.APIKey, logger.With().Str("component", "omdb").Logger(),
		omdb.WithBaseURL(cfg.OMDb.BaseURL),
		omdb.WithTimeout(cfg.OMDb.Timeout),
		omdb.WithUserAgent("moviefinder/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create OMDb client: %w", err)
	}

	return nil
}
