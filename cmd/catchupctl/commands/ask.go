package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"modo/internal/usecase/retrieve"
)

// NewAskCmd constructs `catchupctl ask <question>`, running the full
// Retriever -> Answerer (C10 -> C11) path and printing the answer with
// its citations.
func NewAskCmd() *cobra.Command {
	var countries, topics []string
	var k int

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question and print the grounded answer with citations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database := openDB()
			defer database.Close()

			answerer, err := newAnswerer(database)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			resp, err := answerer.Ask(cmd.Context(), args[0], retrieve.Filters{
				Countries: countries,
				Topics:    topics,
			}, k)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Printf("%s\n\n", resp.Answer)
			fmt.Printf("confidence: %s\n", resp.Confidence)
			if len(resp.Citations) > 0 {
				fmt.Println("citations:")
				for _, c := range resp.Citations {
					fmt.Printf("  - %s\n    %s\n", c.Title, c.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&countries, "country", nil, "restrict to these country codes")
	cmd.Flags().StringSliceVar(&topics, "topic", nil, "restrict to these topic tags")
	cmd.Flags().IntVar(&k, "k", retrieve.DefaultK, "number of chunks to request")
	return cmd
}
