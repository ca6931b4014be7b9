// Package main provides the entry point for the talent console CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talent_console",
	Short: "Talent Match recruiter console",
	Long: "Talent console screens resumes against job postings, maintains the candidate shortlist " +
		"and emails shortlisted candidates through the Talent Match API.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
