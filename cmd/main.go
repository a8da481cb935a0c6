package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "newsbrief",
	Short: "A CLI for managing the NewsBrief services",
	Long:  `NewsBrief ingests RSS/Atom feeds, clusters related articles, and synthesizes them into versioned stories...`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
