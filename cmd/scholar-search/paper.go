// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/library"
	"github.com/pdiddy/scholar-search/internal/search"
)

// --- find subcommand ---

var findCmd = &cobra.Command{
	Use:   "find <paper title>",
	Short: "Find a paper by title and print its citation",
	Long: `Find looks up the best match for a title and prints it as BibTeX, RIS
or JSON (the full record with both exports). Use --save to add the record
to the local library.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "bibtex", "ris", "json":
	default:
		return fmt.Errorf("unsupported format %q: use bibtex, ris or json", format)
	}

	orch, _, err := newOrchestrator()
	if err != nil {
		return err
	}
	out := orch.FindByTitle(cmd.Context(), strings.Join(args, " "))

	switch {
	case format == "json":
		if err := search.FormatJSON(out.Payload(), os.Stdout); err != nil {
			return err
		}
	case out.Failed():
	case format == "ris":
		fmt.Fprint(os.Stdout, out.Value.RIS)
	default:
		fmt.Fprint(os.Stdout, out.Value.BibTeX)
	}
	if out.Failed() {
		return out.Err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := library.Open(libraryConfig().Dir, logger())
		if err != nil {
			return err
		}
		defer store.Close()
		merged, err := store.Save(cmd.Context(), out.Value.Record)
		if err != nil {
			return err
		}
		verb := "Saved"
		if merged {
			verb = "Updated"
		}
		fmt.Fprintf(os.Stderr, "%s %s in library\n", verb, library.Key(out.Value.Title))
	}
	return nil
}

// --- cite subcommand ---

var citeCmd = &cobra.Command{
	Use:   "cite <paper title>",
	Short: "Print abbreviated citation information for a paper",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCite,
}

func runCite(cmd *cobra.Command, args []string) error {
	orch, _, err := newOrchestrator()
	if err != nil {
		return err
	}
	out := orch.CitationInfo(cmd.Context(), strings.Join(args, " "))

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := search.FormatJSON(out.Payload(), os.Stdout); err != nil {
			return err
		}
		return out.Err
	}
	if !out.Failed() {
		search.FormatCitationInfo(out.Value, os.Stdout)
	}
	return out.Err
}

func init() {
	findCmd.Flags().String("format", "bibtex", "output format: bibtex, ris or json")
	findCmd.Flags().Bool("save", false, "add the found record to the library")

	citeCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(citeCmd)
}
