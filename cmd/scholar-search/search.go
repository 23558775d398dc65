// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-search/internal/cite"
	"github.com/pdiddy/scholar-search/internal/search"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// --- search subcommand ---

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Aliases: []string{"search-keywords"},
	Short:   "Search for papers by keywords",
	Long: `Search asks each provider in priority order for papers matching the
query and prints the first successful answer. Results from different
providers are never merged.

Use --save to keep the query and its results in a YAML file, and --load to
print a saved search again without contacting any provider.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	loadPath, _ := cmd.Flags().GetString("load")
	if loadPath != "" {
		saved, err := search.ReadSavedSearch(loadPath)
		if err != nil {
			return err
		}
		return renderRecords(cmd, saved.Outcome())
	}

	orch, cfg, err := newOrchestrator()
	if err != nil {
		return err
	}
	noAPI, _ := cmd.Flags().GetBool("no-api")
	q := types.SearchQuery{
		Text:       strings.Join(args, " "),
		MaxResults: numResults(cmd, cfg),
		Language:   language(cmd, cfg),
	}

	out := orch.Search(cmd.Context(), q, !noAPI)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := search.WriteSavedSearch(savePath, search.NewSavedSearch(q, !noAPI, out)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved search to %s\n", savePath)
	}
	return renderRecords(cmd, out)
}

// --- advanced subcommand ---

var advancedCmd = &cobra.Command{
	Use:   "advanced [query]",
	Short: "Search with author and publication-year filters",
	Long: `Advanced runs a search narrowed by author and an inclusive year range.
Providers that cannot filter natively have the author folded into the query
and out-of-range years dropped from their results. A start year after the
end year yields no results.`,
	RunE: runAdvanced,
}

func runAdvanced(cmd *cobra.Command, args []string) error {
	orch, cfg, err := newOrchestrator()
	if err != nil {
		return err
	}
	author, _ := cmd.Flags().GetString("author")
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")

	out := orch.SearchAdvanced(cmd.Context(), types.SearchQuery{
		Text:       strings.Join(args, " "),
		Author:     author,
		YearStart:  from,
		YearEnd:    to,
		MaxResults: numResults(cmd, cfg),
		Language:   cfg.Language,
	})
	return renderRecords(cmd, out)
}

// --- by-author subcommand ---

var byAuthorCmd = &cobra.Command{
	Use:   "by-author <author name>",
	Short: "List papers by an author",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runByAuthor,
}

func runByAuthor(cmd *cobra.Command, args []string) error {
	orch, cfg, err := newOrchestrator()
	if err != nil {
		return err
	}
	query, _ := cmd.Flags().GetString("query")
	out := orch.SearchByAuthor(cmd.Context(), strings.Join(args, " "), query, numResults(cmd, cfg))
	return renderRecords(cmd, out)
}

// --- shared helpers ---

func numResults(cmd *cobra.Command, cfg types.SearchConfig) int {
	if n, _ := cmd.Flags().GetInt("num-results"); n > 0 {
		return n
	}
	return cfg.NumResults
}

func language(cmd *cobra.Command, cfg types.SearchConfig) string {
	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		return lang
	}
	return cfg.Language
}

// renderRecords prints a record-list outcome as a table, JSON or CSL-YAML.
// A failed outcome is printed as its error payload in JSON mode and
// returned as the command error.
func renderRecords(cmd *cobra.Command, out search.Outcome[[]types.Record]) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cslOutput, _ := cmd.Flags().GetBool("csl")

	switch {
	case jsonOutput:
		if err := search.FormatJSON(out.ListPayload(), os.Stdout); err != nil {
			return err
		}
	case out.Failed():
	case cslOutput:
		if err := cite.CSL(out.Value, os.Stdout); err != nil {
			return err
		}
	default:
		search.FormatTable(out.Value, os.Stdout)
		if out.Provider != "" {
			fmt.Fprintf(os.Stderr, "source: %s\n", out.Provider)
		}
	}
	return out.Err
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("num-results", "n", 0, "number of results (default search.num_results)")
	cmd.Flags().Bool("json", false, "output results as JSON")
	cmd.Flags().Bool("csl", false, "output results as CSL-YAML")
}

func init() {
	addListFlags(searchCmd)
	searchCmd.Flags().Bool("no-api", false, "skip the paid API providers")
	searchCmd.Flags().String("lang", "", "interface language sent to providers (default search.language)")
	searchCmd.Flags().String("save", "", "write the query and its results to a YAML file")
	searchCmd.Flags().String("load", "", "print a saved search instead of querying")

	addListFlags(advancedCmd)
	advancedCmd.Flags().String("author", "", "author name")
	advancedCmd.Flags().Int("from", 0, "earliest publication year")
	advancedCmd.Flags().Int("to", 0, "latest publication year")

	addListFlags(byAuthorCmd)
	byAuthorCmd.Flags().String("query", "", "narrow the author's papers by keywords")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(advancedCmd)
	rootCmd.AddCommand(byAuthorCmd)
}
