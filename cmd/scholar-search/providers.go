// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show the provider priority list and which providers are usable",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, _, err := newOrchestrator()
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%-4s  %-18s  %-8s  %-6s  %-6s  %s\n",
			"#", "Provider", "Status", "Author", "Year", "Note")
		for i, p := range orch.Providers() {
			status, note := "ready", ""
			if !provider.Available(p) {
				status = "skipped"
				if u, ok := p.(*provider.Unavailable); ok {
					note = u.Reason
				}
			}
			t := p.Traits()
			if t.Keyed && note == "" {
				note = "paid API"
			}
			fmt.Fprintf(os.Stdout, "%-4d  %-18s  %-8s  %-6s  %-6s  %s\n",
				i+1, p.Name(), status, native(t.AuthorFilter), native(t.YearFilter), note)
		}
		return nil
	},
}

func native(b bool) string {
	if b {
		return "native"
	}
	return "local"
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
