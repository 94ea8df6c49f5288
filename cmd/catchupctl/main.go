// Command catchupctl is the operator CLI: it triggers one-shot ingestion
// runs and queries the articles, chunks, and briefs the worker produces.
package main

import (
	"fmt"
	"os"

	"modo/cmd/catchupctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
