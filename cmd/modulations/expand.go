// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/laurentVeliscek/modulations-V2/internal/catalog"
	"github.com/laurentVeliscek/modulations-V2/internal/combine"
	"github.com/laurentVeliscek/modulations-V2/internal/stats"
	"github.com/laurentVeliscek/modulations-V2/pkg/types"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Synthesize new progressions by chaining compatible pairs",
	Long: `Expand loads a catalog, combines every chain-compatible ordered pair of
progressions into a new one, and writes the expanded catalog (originals
first, combined progressions after) to the output path.

Two progressions are chain-compatible when the first ends in the mode the
second starts from. The combined record splices the chord sequences at the
join point and composes the two transposition offsets mod 12.`,
	RunE: runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	input, output := catalogPaths(cmd)
	quiet, _ := cmd.Flags().GetBool("quiet")

	fmt.Printf("Loading modulations from %s...\n", input)
	progs, err := catalog.Load(input)
	if err != nil {
		return err
	}
	if err := catalog.Validate(progs); err != nil {
		return fmt.Errorf("invalid catalog %s: %w", input, err)
	}
	fmt.Printf("Loaded %d progressions\n\n", len(progs))

	progress := io.Writer(os.Stdout)
	if quiet {
		progress = io.Discard
	}

	fmt.Println("Generating combined progressions...")
	fmt.Println(strings.Repeat("=", 80))
	combined, err := combine.GenerateAll(progs, progress)
	if err != nil {
		return err
	}
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("\nGenerated %d new combined progressions\n", len(combined))

	all := append(append([]types.Progression(nil), progs...), combined...)

	summary := stats.Summarize(len(progs), len(combined))
	fmt.Printf("\nTotal progressions: %d (original: %d, new: %d)\n",
		summary.Total, summary.Original, summary.Combined)

	fmt.Printf("\nSaving expanded database to %s...\n", output)
	if err := catalog.Save(output, all); err != nil {
		return err
	}
	fmt.Println("Done!")

	fmt.Println("\n" + strings.Repeat("=", 80))
	summary.Print(os.Stdout)
	return nil
}

// catalogPaths resolves the input/output paths from flags, falling back to
// config values when the flags are left at their defaults.
func catalogPaths(cmd *cobra.Command) (string, string) {
	input, _ := cmd.Flags().GetString("input")
	if !cmd.Flags().Changed("input") {
		if v := viper.GetString("catalog.input"); v != "" {
			input = v
		}
	}
	output, _ := cmd.Flags().GetString("output")
	if !cmd.Flags().Changed("output") {
		if v := viper.GetString("catalog.output"); v != "" {
			output = v
		}
	}
	return input, output
}

func init() {
	expandCmd.Flags().String("input", "modulationDB.json", "source catalog file (JSON or YAML)")
	expandCmd.Flags().String("output", "modulationDB_expanded.json", "destination for the expanded catalog")
	expandCmd.Flags().Bool("quiet", false, "suppress per-pair progress output")

	rootCmd.AddCommand(expandCmd)
}
