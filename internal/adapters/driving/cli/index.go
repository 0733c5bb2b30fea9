package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector store",
}

var indexConversationCmd = &cobra.Command{
	Use:   "conversation [name]",
	Short: "Index a saved conversation",
	Long: `Embeds the user/assistant pairs of a saved conversation into the
vector store so they become available to search and retrieval
augmentation. Re-indexing the same conversation updates entries in
place.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexConversation,
}

var indexAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Index every saved conversation",
	Args:  cobra.NoArgs,
	RunE:  runIndexAll,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

func init() {
	indexCmd.AddCommand(indexConversationCmd)
	indexCmd.AddCommand(indexAllCmd)
	indexCmd.AddCommand(indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexConversation(cmd *cobra.Command, args []string) error {
	if indexService == nil || conversationService == nil {
		return errors.New("index service not configured")
	}

	ctx := context.Background()
	conv, err := conversationService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	report, err := indexService.IndexConversation(ctx, conv)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("Indexed %q: %d inserted, %d updated, %d failed.\n",
		conv.Name, report.Inserted, report.Updated, report.Failed)
	return nil
}

func runIndexAll(cmd *cobra.Command, args []string) error {
	if indexService == nil || conversationService == nil {
		return errors.New("index service not configured")
	}

	ctx := context.Background()
	summaries, err := conversationService.List(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No saved conversations to index.")
		return nil
	}

	var inserted, updated, failed int
	for _, summary := range summaries {
		conv, err := conversationService.Get(ctx, summary.Name)
		if err != nil {
			cmd.Printf("Skipping %q: %v\n", summary.Name, err)
			continue
		}
		report, err := indexService.IndexConversation(ctx, conv)
		if err != nil {
			cmd.Printf("Skipping %q: %v\n", summary.Name, err)
			continue
		}
		inserted += report.Inserted
		updated += report.Updated
		failed += report.Failed
	}

	cmd.Printf("Indexed %d conversations: %d inserted, %d updated, %d failed.\n",
		len(summaries), inserted, updated, failed)
	return nil
}

func runIndexStats(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats, err := indexService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	cmd.Printf("Entries:          %d\n", stats.TotalEntries)
	cmd.Printf("Distinct sources: %d\n", stats.DistinctSources)
	for kind, count := range stats.ByKind {
		cmd.Printf("  %-18s %d\n", kind.Description()+":", count)
	}
	if !stats.LastUpdated.IsZero() {
		cmd.Printf("Last updated:     %s\n", stats.LastUpdated.Format("2006-01-02 15:04"))
	}
	return nil
}
