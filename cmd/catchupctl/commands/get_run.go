package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	pgRepo "modo/internal/infra/persistence/postgres"
)

// NewGetRunCmd constructs `catchupctl get-run <id>`, printing one
// IngestionRun's full stats including its capped error sample list.
func NewGetRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-run <id>",
		Short: "Show one ingestion run's full stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("get-run: invalid run id %q: %w", args[0], err)
			}

			database := openDB()
			defer database.Close()

			run, err := pgRepo.NewRunRepo(database).Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get-run: %w", err)
			}

			fmt.Printf("run %d: %s\n", run.ID, run.Status)
			fmt.Printf("  started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
			if run.FinishedAt != nil {
				fmt.Printf("  finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Printf("  sources_processed:  %d\n", run.Stats.SourcesProcessed)
			fmt.Printf("  articles_fetched:   %d\n", run.Stats.ArticlesFetched)
			fmt.Printf("  articles_new:       %d\n", run.Stats.ArticlesNew)
			fmt.Printf("  articles_updated:   %d\n", run.Stats.ArticlesUpdated)
			fmt.Printf("  articles_extracted: %d\n", run.Stats.ArticlesExtracted)
			fmt.Printf("  articles_tagged:    %d\n", run.Stats.ArticlesTagged)
			fmt.Printf("  chunks_created:     %d\n", run.Stats.ChunksCreated)
			fmt.Printf("  chunks_embedded:    %d\n", run.Stats.ChunksEmbedded)
			fmt.Printf("  error_count:        %d\n", run.Stats.ErrorCount)
			for _, e := range run.Stats.Errors {
				fmt.Printf("    [%s] source=%q article=%q: %s\n", e.Kind, e.SourceName, e.ArticleURL, e.Message)
			}
			return nil
		},
	}
}
