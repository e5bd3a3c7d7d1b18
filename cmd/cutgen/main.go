// Package main provides the entry point for the cutgen dataset generator.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cutgen",
	Short: "Glass cutting benchmark instance generator",
	Long:  "cutgen produces randomized stacks of rectangular items and defective stock plates for two-dimensional guillotine cutting benchmarks.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
