// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/cite"
	"github.com/pdiddy/scholar-search/internal/library"
	"github.com/pdiddy/scholar-search/internal/search"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local bibliography library",
	Long: `Library manages records saved with "find --save" in a local SQLite
database (library.dir). Searches never read from the library.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved records",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return search.FormatJSON(entries, os.Stdout)
		}
		if len(entries) == 0 {
			fmt.Println("Library is empty.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-40s  %-4s  %-16s  %s\n", "Key", "Year", "Source", "Added")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for _, e := range entries {
			key := e.Key
			if len(key) > 40 {
				key = key[:37] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-40s  %-4s  %-16s  %s\n",
				key, e.Record.Year, e.Record.SourceProvider, e.AddedAt.Format("2006-01-02"))
		}
		fmt.Fprintf(os.Stdout, "\n%d records\n", len(entries))
		return nil
	},
}

// --- show subcommand ---

var libraryShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print one saved record as BibTeX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return search.FormatJSON(entry, os.Stdout)
		}
		fmt.Fprint(os.Stdout, cite.BibTeX(entry.Record))
		return nil
	},
}

// --- remove subcommand ---

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a saved record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Removed %s\n", args[0])
		return nil
	},
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every saved record as BibTeX, RIS or CSL-YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Export(cmd.Context(), format, os.Stdout)
	},
}

func openLibrary() (*library.Store, error) {
	return library.Open(libraryConfig().Dir, logger())
}

func init() {
	libraryListCmd.Flags().Bool("json", false, "output entries as JSON")
	libraryShowCmd.Flags().Bool("json", false, "output the entry as JSON")
	libraryExportCmd.Flags().String("format", library.FormatBibTeX, "export format: bibtex, ris or csl")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
