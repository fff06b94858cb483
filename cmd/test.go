package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviefinder/omdb"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to OMDb",
	Long:  `Send one lookup to OMDb to check that the endpoint is reachable and the API key is accepted.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to OMDb at %s...\n", cfg.OMDb.BaseURL)

	if err := omdbClient.Ping(context.Background()); err != nil {
		var upErr *omdb.UpstreamError
		if errors.As(err, &upErr) && upErr.IsUnauthorized() {
			return fmt.Errorf("OMDb rejected the API key: %w", err)
		}
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "- Request timeout: %s\n", timeoutStatus(cfg.OMDb.Timeout))
	fmt.Fprintf(out, "- Metrics endpoint: %s\n", boolToStatus(cfg.Metrics.Enabled))

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}

func timeoutStatus(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}
