package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

var (
	searchLimit     int
	searchJSON      bool
	searchKind      string
	searchSource    string
	searchThreshold float64
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed conversations and documents",
	Long: `Performs semantic search over everything indexed into the vector
store: saved conversation pairs and knowledge base document chunks.
Results are ranked by cosine similarity to the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "restrict to one source kind (conversation_pair, kb_chunk)")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "restrict to one conversation or document")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "minimum similarity score (0 uses the configured default)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	kind := domain.SourceKind(searchKind)
	if searchKind != "" && !kind.IsValid() {
		return fmt.Errorf("unknown source kind %q", searchKind)
	}

	ctx := context.Background()
	opts := domain.SearchOptions{
		TopK:      searchLimit,
		Threshold: searchThreshold,
		Kind:      kind,
		SourceRef: searchSource,
	}

	results, err := retrievalService.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedEntry) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedEntry) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results: %d\n\n", len(results))
	for i, r := range results {
		label := r.Entry.Title
		if label == "" {
			label = r.Entry.SourceRef
		}
		cmd.Printf("%d. [%.3f] %s (%s)\n", i+1, r.Score, label, r.Entry.Kind.Description())
		cmd.Printf("   %s\n", snippetLine(r.Entry.Text, 100))
	}
	return nil
}

// snippetLine flattens text into a single truncated line.
func snippetLine(text string, maxLen int) string {
	out := make([]rune, 0, maxLen)
	for _, r := range text {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
		if len(out) >= maxLen {
			return string(out) + "..."
		}
	}
	return string(out)
}
