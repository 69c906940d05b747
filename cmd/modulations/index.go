// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/laurentVeliscek/modulations-V2/internal/catalog"
	"github.com/laurentVeliscek/modulations-V2/internal/index"
	"github.com/laurentVeliscek/modulations-V2/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and query a SQLite index over a catalog",
	Long: `Index maintains a local SQLite database over a modulation catalog with
full-text search on technique labels and chord comments, plus structured
filters on modes and style tags.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Ingest a catalog file into the index",
	Long: `Build replaces the index contents with the progressions from the given
catalog file. The previous index survives a failed ingest.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	progs, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	if err := catalog.Validate(progs); err != nil {
		return fmt.Errorf("invalid catalog %s: %w", args[0], err)
	}

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Ingest(context.Background(), progs, os.Stdout)
	return err
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the index with full-text search and filters",
	Long: `Query searches the index using FTS5 full-text search over technique
labels and chord comments, structured filters (--from-mode, --to-mode,
--style), or a combination of both.`,
	RunE: runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --from-mode, --to-mode, or --style")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	fromMode, _ := cmd.Flags().GetString("from-mode")
	toMode, _ := cmd.Flags().GetString("to-mode")
	styles, _ := cmd.Flags().GetStringSlice("style")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return index.QueryOptions{
		Query:      strings.Join(args, " "),
		FromMode:   fromMode,
		ToMode:     toMode,
		Styles:     styles,
		MaxResults: maxResults,
	}
}

func formatQueryOutput(results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-40s  %-15s  %-15s  %-7s  %-6s  %s\n",
		"ID", "Technique", "From", "To", "To root", "Chords", "Styles")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range results {
		technique := r.Technique
		if len(technique) > 40 {
			technique = technique[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-40s  %-15s  %-15s  %-7d  %-6d  %s\n",
			r.ID, technique, r.FromMode, r.ToMode, r.ToRoot, r.ChordCount,
			strings.Join(r.Styles, ", "))
	}
	return nil
}

// indexConfig resolves index settings from flags, falling back to config
// values when the flags are left at their defaults.
func indexConfig(cmd *cobra.Command) types.IndexConfig {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	if !cmd.Flags().Changed("index-dir") {
		if v := viper.GetString("index.index_dir"); v != "" {
			indexDir = v
		}
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if !cmd.Flags().Changed("max-results") {
		if v := viper.GetInt("index.max_results"); v > 0 {
			maxResults = v
		}
	}

	return types.IndexConfig{
		IndexDir:   indexDir,
		MaxResults: maxResults,
	}
}

func init() {
	for _, c := range []*cobra.Command{indexBuildCmd, indexQueryCmd} {
		c.Flags().String("index-dir", "index", "directory holding the index database")
		c.Flags().Int("max-results", 20, "maximum number of query results")
	}

	indexQueryCmd.Flags().String("from-mode", "", "filter by starting mode")
	indexQueryCmd.Flags().String("to-mode", "", "filter by arrival mode")
	indexQueryCmd.Flags().StringSlice("style", nil, "filter by style tag (repeatable, AND semantics)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)
	rootCmd.AddCommand(indexCmd)
}
