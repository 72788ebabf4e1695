// Package main provides the entry point for the priority engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "priority_engine",
	Short: "AHP-based work prioritization engine",
	Long:  "Priority Engine ranks work items with pairwise-judgment (AHP) criterion weights blended with strategic-alignment scores, producing auditable, deterministic rankings.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
