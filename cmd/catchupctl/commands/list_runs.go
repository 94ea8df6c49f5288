package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	pgRepo "modo/internal/infra/persistence/postgres"
)

// NewListRunsCmd constructs `catchupctl list-runs`, paging through the
// IngestionRun audit trail.
func NewListRunsCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list-runs",
		Short: "List ingestion runs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			database := openDB()
			defer database.Close()

			runs, err := pgRepo.NewRunRepo(database).List(cmd.Context(), limit, offset)
			if err != nil {
				return fmt.Errorf("list-runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			for _, run := range runs {
				finished := "in progress"
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Printf("%d\t%s\t%s -> %s\tarticles_new=%d errors=%d\n",
					run.ID, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"), finished,
					run.Stats.ArticlesNew, run.Stats.ErrorCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of runs to skip")
	return cmd
}
