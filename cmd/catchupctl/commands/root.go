package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"modo/internal/observability/logging"
)

var logger *slog.Logger

// NewRootCmd builds the catchupctl root command and registers every
// subcommand: trigger-run, list-runs, get-run, search, ask, brief,
// top-stories.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catchupctl",
		Short:         "Operate and query the news-intelligence ingestion pipeline",
		Long:          `catchupctl triggers ingestion runs and queries the resulting articles, chunks, and briefs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger = logging.NewLogger()
			slog.SetDefault(logger)
			return nil
		},
	}

	root.AddCommand(
		NewTriggerRunCmd(),
		NewListRunsCmd(),
		NewGetRunCmd(),
		NewSearchCmd(),
		NewAskCmd(),
		NewBriefCmd(),
		NewTopStoriesCmd(),
	)

	return root
}
