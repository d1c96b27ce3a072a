// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/flomo-export/internal/export"
	"github.com/pdiddy/flomo-export/internal/index"
	"github.com/pdiddy/flomo-export/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the memo index (store, retrieve, export)",
	Long: `Index keeps the memos of a flomo export in a local SQLite database with
full-text search. Use subcommands to build the index, query it, or dump it.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Parse the flomo export and replace the indexed memos",
	Long: `Store parses every HTML page under --input exactly as the export does and
replaces the contents of the index with the memos found. A malformed page
leaves the index untouched.`,
	Args: cobra.NoArgs,
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if !cmd.Flags().Changed("input") {
		input = viper.GetString("input")
	}
	if input == "" {
		input = export.DefaultInputDir
	}

	memos, _, err := export.Collect(input, progress())
	if err != nil {
		return err
	}

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Replace(context.Background(), memos, progress())
	return err
}

// --- retrieve subcommand ---

var indexRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the memo index with full-text search and filters",
	Long: `Retrieve searches indexed memo content with SQLite full-text search,
filters by tag or creation date, or both. Results are listed oldest first.`,
	RunE: runIndexRetrieve,
}

func runIndexRetrieve(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --tag, --from, or --to")
	}

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatRetrieveOutput(w io.Writer, results []index.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []index.Result{}
		}
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-50s  %s\n", "Created", "Content", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range results {
		content := []rune(strings.Join(strings.Fields(r.Content), " "))
		if len(content) > 50 {
			content = append(content[:47], []rune("...")...)
		}
		fmt.Fprintf(w, "%-19s  %-50s  %s\n", r.CreatedAt, string(content), strings.Join(r.Tags, " "))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the memo index to YAML or JSON",
	Long: `Export writes every indexed memo, with its ID, tags, and attachments, as
YAML or JSON to --output, or to stdout when no output file is given.`,
	Args: cobra.NoArgs,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) (err error) {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	if output != "" {
		f, cerr := os.Create(output)
		if cerr != nil {
			return fmt.Errorf("creating export %s: %w", output, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing export %s: %w", output, cerr)
			}
		}()
		w = f
	}

	if err := store.Export(context.Background(), index.Format(format), w); err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(progress(), "Exported to %s\n", output)
	}
	return nil
}

// --- shared helpers ---

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		DBPath:     viper.GetString("db"),
		MaxResults: viper.GetInt("max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	tags, _ := cmd.Flags().GetStringSlice("tag")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      strings.Join(args, " "),
		Tags:       tags,
		From:       from,
		To:         to,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("db", index.DefaultDBPath, "SQLite index database file")
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")
	viper.BindPFlag("db", indexCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("max_results", indexCmd.PersistentFlags().Lookup("max-results"))

	// Store flags.
	indexStoreCmd.Flags().String("input", export.DefaultInputDir, "directory searched recursively for *.html export pages")

	// Retrieve flags.
	indexRetrieveCmd.Flags().StringSlice("tag", nil, "filter by tag (repeatable, ANDed; leading # optional)")
	indexRetrieveCmd.Flags().String("from", "", "earliest creation date or timestamp (inclusive)")
	indexRetrieveCmd.Flags().String("to", "", "latest creation date or timestamp (inclusive)")
	indexRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use --max-results)")
	indexRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().String("output", "", "file to write (default: stdout)")

	// Wire subcommands.
	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexRetrieveCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
