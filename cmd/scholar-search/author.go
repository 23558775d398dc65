// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/search"
)

var profileCmd = &cobra.Command{
	Use:     "profile <author name>",
	Aliases: []string{"author-info"},
	Short:   "Show an author's profile and top publications",
	Long: `Profile looks up the best matching author and prints affiliation,
interests, citation metrics and most cited publications. Providers that do
not offer profiles are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	orch, _, err := newOrchestrator()
	if err != nil {
		return err
	}
	out := orch.AuthorProfile(cmd.Context(), strings.Join(args, " "))

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := search.FormatJSON(out.Payload(), os.Stdout); err != nil {
			return err
		}
		return out.Err
	}
	if !out.Failed() {
		search.FormatProfile(out.Value, os.Stdout)
	}
	return out.Err
}

func init() {
	profileCmd.Flags().Bool("json", false, "output the profile as JSON")
	rootCmd.AddCommand(profileCmd)
}
