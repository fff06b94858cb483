package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	searchPretty bool
	moviePretty  bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search OMDb by title and print the raw response",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

// movieCmd represents the movie command
var movieCmd = &cobra.Command{
	Use:   "movie <imdb-id>",
	Short: "Fetch an OMDb record by IMDb identifier and print the raw response",
	Args:  cobra.ExactArgs(1),
	RunE:  runMovie,
}

func init() {
	searchCmd.Flags().BoolVar(&searchPretty, "pretty", false, "indent the JSON output")
	movieCmd.Flags().BoolVar(&moviePretty, "pretty", false, "indent the JSON output")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if args[0] == "" {
		return fmt.Errorf("title must not be empty")
	}

	body, err := omdbClient.SearchByTitle(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to search movies: %w", err)
	}

	return writeJSON(cmd.OutOrStdout(), body, searchPretty)
}

func runMovie(cmd *cobra.Command, args []string) error {
	body, err := omdbClient.GetByID(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch movie details: %w", err)
	}

	return writeJSON(cmd.OutOrStdout(), body, moviePretty)
}

func writeJSON(w io.Writer, body json.RawMessage, indent bool) error {
	out := []byte(body)
	if indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return fmt.Errorf("failed to format response: %w", err)
		}
		out = buf.Bytes()
	}

	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return err
	}
	return nil
}
