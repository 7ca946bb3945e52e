// Package main is the entry point for the badgeforge CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "badgeforge",
	Short: "Badgeforge issuance engine CLI",
	Long: `The core engine for issuing verifiable image badges.
Builds signed assertions, bakes them into PNG images, stores the artifact,
and delivers the baked badge to the recipient by email.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
