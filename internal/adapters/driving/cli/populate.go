package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eulens/eulens/internal/config"
)

var catalogPath string

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Ingest every document in the catalog",
	Long: `Reads a YAML catalog of documents and ingests each in turn.
A document that fails is reported and the rest still run.`,
	Args: cobra.NoArgs,
	RunE: runPopulate,
}

func init() {
	populateCmd.Flags().StringVar(&catalogPath, "catalog", config.DefaultCatalogPath, "YAML catalog of documents")
	rootCmd.AddCommand(populateCmd)
}

func runPopulate(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	entries, err := config.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}
	cmd.Printf("Populating %d document(s)\n", len(entries))

	results, err := ingestionService.IngestCatalog(cmd.Context(), entries)
	if err != nil {
		return fmt.Errorf("populate failed: %w", describe(err))
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			cmd.Printf("FAILED %s (%s): %s\n", r.Name, r.URL, r.Error)
			continue
		}
		printResult(cmd, r)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	cmd.Println("Done.")
	return nil
}
