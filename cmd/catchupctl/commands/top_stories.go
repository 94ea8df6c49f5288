package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"modo/internal/usecase/topstories"
)

// NewTopStoriesCmd constructs `catchupctl top-stories <country>`, ranking
// a country's recent articles by recency, source tier, and
// priority-keyword hits.
func NewTopStoriesCmd() *cobra.Command {
	var days, limit int

	cmd := &cobra.Command{
		Use:   "top-stories <country>",
		Short: "Rank a country's recent articles by recency, source tier, and priority keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database := openDB()
			defer database.Close()

			ranker, err := newTopStoriesRanker(database)
			if err != nil {
				return fmt.Errorf("top-stories: %w", err)
			}

			ranked, err := ranker.TopStories(cmd.Context(), args[0], days, limit)
			if err != nil {
				return fmt.Errorf("top-stories: %w", err)
			}

			if len(ranked) == 0 {
				fmt.Println("no articles found")
				return nil
			}

			for i, r := range ranked {
				fmt.Printf("%d. [%.1f] %s\n    recency=%.1f tier=%.0f keyword=%.1f  %s\n",
					i+1, r.Score, r.Article.Title, r.RecencyScore, r.TierScore, r.KeywordScore, r.Article.URL)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "how many days back to consider")
	cmd.Flags().IntVar(&limit, "limit", topstories.DefaultLimit, "maximum number of ranked stories to return")
	return cmd
}
