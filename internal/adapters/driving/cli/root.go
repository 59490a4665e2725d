// Package cli implements the ingest-document command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
	"github.com/eulens/eulens/internal/core/ports/driving"
	"github.com/eulens/eulens/internal/runtime"
)

// Services used by the commands, injected by main or by tests
var (
	ingestionService driving.IngestionService
	chatService      driving.ChatService
	runtimeServices  *runtime.Services
	ingestLock       driven.DistributedLock
)

// LogLevel is the level of the process logger; --verbose lowers it to debug
var LogLevel = new(slog.LevelVar)

var (
	ingestURL   string
	ingestName  string
	ingestForce bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "ingest-document",
	Short: "Ingest EU legal documents into the vector index",
	Long: `Fetches a document, splits it into sentence-aligned chunks, embeds each
chunk and stores it in the vector index. The document registry records
every ingested URL.`,
	Example: `  ingest-document --url http://data.europa.eu/eli/reg/2016/679 --name GDPR
  ingest-document populate --catalog documents.yaml
  ingest-document ask "When is consent required?"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			LogLevel.Set(slog.LevelDebug)
		}
	},
	RunE: runIngest,
}

func init() {
	rootCmd.Flags().StringVar(&ingestURL, "url", "", "URL of the document to ingest")
	rootCmd.Flags().StringVar(&ingestName, "name", "", "display name of the document")
	rootCmd.Flags().BoolVar(&ingestForce, "force", false, "re-ingest even if already registered")
	_ = rootCmd.MarkFlagRequired("url")
	_ = rootCmd.MarkFlagRequired("name")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
}

// SetServices installs the services the commands run against.
// lock may be nil when no distributed lock is configured.
func SetServices(ingest driving.IngestionService, chat driving.ChatService, services *runtime.Services, lock driven.DistributedLock) {
	ingestionService = ingest
	chatService = chat
	runtimeServices = services
	ingestLock = lock
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	result, err := ingestionService.Ingest(cmd.Context(), ingestURL, ingestName, ingestForce)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", describe(err))
	}

	printResult(cmd, result)
	return nil
}

func printResult(cmd *cobra.Command, r *domain.IngestResult) {
	cmd.Printf("Ingested %s (%s)\n", r.Name, r.URL)
	cmd.Printf("  chunks: %d, upserted: %d, skipped: %d, took %s\n",
		r.TotalChunks, r.Upserted, r.Skipped, r.Duration.Round(time.Millisecond))
}

// describe adds an operator hint for errors with a known cause
func describe(err error) error {
	switch {
	case errors.Is(err, domain.ErrLockNotAcquired):
		return fmt.Errorf("%w (another ingestion is running)", err)
	case errors.Is(err, domain.ErrConfigurationMissing):
		return fmt.Errorf("%w (check .env.local)", err)
	default:
		return err
	}
}

// joinArgs turns positional words into one question
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
