package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"modo/internal/usecase/retrieve"
)

// NewSearchCmd constructs `catchupctl search <question>`, running the
// Retriever (C10) directly and printing its graded hits.
func NewSearchCmd() *cobra.Command {
	var countries, topics []string
	var k int

	cmd := &cobra.Command{
		Use:   "search <question>",
		Short: "Run the retriever over a question and print graded hits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database := openDB()
			defer database.Close()

			retriever, err := newRetriever(database)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			result, err := retriever.Retrieve(cmd.Context(), args[0], retrieve.Filters{
				Countries: countries,
				Topics:    topics,
			}, k)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			fmt.Printf("confidence=%s fallback=%q hits=%d\n", result.Confidence, result.Fallback, len(result.Hits))
			for _, hit := range result.Hits {
				fmt.Printf("  [%.3f] %s\n    %s\n", hit.Similarity, hit.Title, hit.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&countries, "country", nil, "restrict to these country codes")
	cmd.Flags().StringSliceVar(&topics, "topic", nil, "restrict to these topic tags")
	cmd.Flags().IntVar(&k, "k", retrieve.DefaultK, "number of chunks to request")
	return cmd
}
