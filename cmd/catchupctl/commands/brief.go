package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// defaultBriefDays is the fallback lookback window when --days is omitted.
const defaultBriefDays = 7

// NewBriefCmd constructs `catchupctl brief <country-code>`, generating
// (or returning the cached copy of) an analyst-style country brief, the
// Answerer's sibling (C11).
func NewBriefCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "brief <country-code>",
		Short: "Generate or fetch a cached country brief",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database := openDB()
			defer database.Close()

			generator, err := newBriefGenerator(database)
			if err != nil {
				return fmt.Errorf("brief: %w", err)
			}

			result, display, err := generator.Generate(cmd.Context(), args[0], days)
			if err != nil {
				return fmt.Errorf("brief: %w", err)
			}

			fmt.Printf("%s\n\n", result.Content)
			fmt.Printf("generated_at: %s  article_count: %d  days_range: %d\n",
				result.GeneratedAt.Format("2006-01-02 15:04:05"), result.ArticleCount, result.DaysRange)
			if len(display) > 0 {
				fmt.Println("articles:")
				for _, a := range display {
					fmt.Printf("  - %s (%s)\n    %s\n", a.Title, a.Source, a.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", defaultBriefDays, "days of recent articles to build the brief from")
	return cmd
}
