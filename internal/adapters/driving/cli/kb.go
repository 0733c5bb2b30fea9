package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/chunker"
)

var (
	kbCollectionDesc string
	kbAddCollection  string
	kbAddTitle       string
	kbAddStrategy    string
	kbDocsCollection string
	kbWatchStrategy  string
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the knowledge base",
}

var kbCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBCreate,
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE:  runKBList,
}

var kbAddCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Add a document to the knowledge base",
	Long: `Parses a file (plain text, Markdown or PDF), splits it into chunks
and stores it in a collection. Embeddings are generated immediately so
the document is searchable right away.`,
	Args: cobra.ExactArgs(1),
	RunE: runKBAdd,
}

var kbDocsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runKBDocs,
}

var kbStatsCmd = &cobra.Command{
	Use:   "stats [collection]",
	Short: "Show knowledge base statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKBStats,
}

var kbWatchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory for new documents",
	Long: `Monitors a directory and adds supported files to the collection as
they are created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runKBWatch,
}

func init() {
	kbCreateCmd.Flags().StringVarP(&kbCollectionDesc, "description", "d", "", "collection description")
	kbAddCmd.Flags().StringVarP(&kbAddCollection, "collection", "c", "", "target collection")
	kbAddCmd.Flags().StringVarP(&kbAddTitle, "title", "t", "", "document title (defaults to the file name)")
	kbAddCmd.Flags().StringVar(&kbAddStrategy, "strategy", string(chunker.StrategyParagraph), "chunking strategy (paragraphs, sentences, size)")
	kbDocsCmd.Flags().StringVarP(&kbDocsCollection, "collection", "c", "", "filter by collection")
	kbWatchCmd.Flags().StringVarP(&kbAddCollection, "collection", "c", "", "target collection")
	kbWatchCmd.Flags().StringVar(&kbWatchStrategy, "strategy", string(chunker.StrategyParagraph), "chunking strategy")

	kbCmd.AddCommand(kbCreateCmd)
	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbAddCmd)
	kbCmd.AddCommand(kbDocsCmd)
	kbCmd.AddCommand(kbStatsCmd)
	kbCmd.AddCommand(kbWatchCmd)
	rootCmd.AddCommand(kbCmd)
}

func runKBCreate(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	coll, err := knowledgeService.CreateCollection(context.Background(), args[0], kbCollectionDesc)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	cmd.Printf("Collection %q created.\n", coll.Name)
	return nil
}

func runKBList(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	collections, err := knowledgeService.ListCollections(context.Background())
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	if len(collections) == 0 {
		cmd.Println("No collections. Create one with: confab kb create <name>")
		return nil
	}

	cmd.Println("Collections:")
	for _, coll := range collections {
		cmd.Printf("  %-20s %d documents", coll.Name, coll.DocumentCount())
		if coll.Description != "" {
			cmd.Printf("  - %s", coll.Description)
		}
		cmd.Println()
	}
	return nil
}

func runKBAdd(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	strategy, err := chunker.ParseStrategy(kbAddStrategy)
	if err != nil {
		return err
	}

	doc, err := knowledgeService.AddDocument(context.Background(), args[0], kbAddCollection, kbAddTitle, strategy)
	if err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	cmd.Printf("Added %q to %q: %d chunks, %d words", doc.Title, doc.Collection, doc.ChunkCount(), doc.WordCount)
	if doc.Indexed {
		cmd.Print(", indexed")
	}
	cmd.Println(".")
	return nil
}

func runKBDocs(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	docs, err := knowledgeService.ListDocuments(context.Background(), kbDocsCollection)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Printf("Documents: %d\n", len(docs))
	for _, doc := range docs {
		indexed := " "
		if doc.Indexed {
			indexed = "*"
		}
		cmd.Printf("  %s %-30s %-15s %d chunks\n", indexed, doc.Title, doc.Collection, doc.ChunkCount())
	}
	cmd.Println("\n* = indexed into the vector store")
	return nil
}

func runKBStats(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		stats, err := knowledgeService.CollectionStats(ctx, args[0])
		if err != nil {
			return fmt.Errorf("collection stats: %w", err)
		}
		cmd.Printf("Collection: %s\n", stats.Name)
		if stats.Description != "" {
			cmd.Printf("Description: %s\n", stats.Description)
		}
		cmd.Printf("Documents:  %d (%d indexed)\n", stats.Documents, stats.IndexedDocuments)
		cmd.Printf("Chunks:     %d\n", stats.TotalChunks)
		cmd.Printf("Words:      %d\n", stats.TotalWords)
		return nil
	}

	stats, err := knowledgeService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("knowledge base stats: %w", err)
	}
	cmd.Printf("Collections: %d\n", stats.Collections)
	cmd.Printf("Documents:   %d (%d indexed)\n", stats.Documents, stats.IndexedDocuments)
	cmd.Printf("Chunks:      %d\n", stats.TotalChunks)
	cmd.Printf("Words:       %d\n", stats.TotalWords)
	return nil
}

func runKBWatch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	strategy, err := chunker.ParseStrategy(kbWatchStrategy)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd.Printf("Watching %s (Ctrl-C to stop)...\n", args[0])
	if err := knowledgeService.Watch(ctx, args[0], kbAddCollection, strategy); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.Println("Stopped.")
	return nil
}
