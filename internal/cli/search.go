package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var searchTimeout time.Duration

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <source> <query>",
	Short: "Query a single knowledge base",
	Long: `Search runs one provider on a query and prints its evidence items as
JSON, without ranking or scoring.

Sources: wikipedia, wikidata, duckduckgo, archive, pubmed, openlibrary

Example:
  factcheck search wikidata "Marie Curie"
  factcheck search pubmed "étude clinique sur le cancer"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 30*time.Second, "overall timeout")
}

func runSearch(cmd *cobra.Command, args []string) error {
	source := args[0]
	query := strings.Join(args[1:], " ")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	items, err := a.pipeline.Search(ctx, source, query)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(a.pipeline.Sources(), ", "))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}
