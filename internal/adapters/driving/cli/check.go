package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the provider, vector index and lock connections",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if runtimeServices == nil || ingestionService == nil {
		return errors.New("services not configured")
	}
	ctx := cmd.Context()

	embedder := runtimeServices.EmbeddingService()
	if embedder == nil {
		return errors.New("embedding service not configured")
	}
	vec, err := embedder.EmbedQuery(ctx, "test")
	if err != nil {
		return fmt.Errorf("embedding check failed: %w", err)
	}
	cmd.Printf("Embedding OK: %s returned %d dimensions\n", embedder.Model(), len(vec))

	stats, err := ingestionService.IndexStats(ctx)
	if err != nil {
		return fmt.Errorf("index stats failed: %w", err)
	}
	cmd.Printf("Vector index OK: dimension %d, %d vectors\n", stats.Dimension, stats.TotalVectorCount)

	if stats.Dimension != 0 && stats.Dimension != len(vec) {
		return fmt.Errorf("dimension mismatch: embeddings have %d, index has %d", len(vec), stats.Dimension)
	}

	if model := runtimeServices.ChatModel(); model != nil {
		if err := model.Ping(ctx); err != nil {
			return fmt.Errorf("chat model ping failed: %w", err)
		}
		cmd.Printf("Chat model OK: %s\n", model.Model())
	} else {
		cmd.Println("Chat model: not configured")
	}

	if ingestLock != nil {
		if err := ingestLock.Ping(ctx); err != nil {
			return fmt.Errorf("lock backend ping failed: %w", err)
		}
		cmd.Println("Ingestion lock OK")
	}

	cfg := runtimeServices.Config()
	cmd.Printf("Index provider: %s, registry: %s\n", cfg.IndexProvider, cfg.RegistryBackend)
	cmd.Printf("Can ingest: %s, can answer: %s\n", yesNo(cfg.CanIngest()), yesNo(cfg.CanAnswer()))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
