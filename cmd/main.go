package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nurture",
		Short:         "Course recommendation and progress backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSeedCatalogCommand())
	cmd.AddCommand(newBackfillUnitsCommand())
	cmd.AddCommand(newResyncCommand())
	cmd.AddCommand(newTokenCommand())
	return cmd
}
