// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/laurentVeliscek/modulations-V2/internal/catalog"
	"github.com/laurentVeliscek/modulations-V2/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print a breakdown of a catalog file",
	Long: `Stats loads a catalog and prints counts of progressions and chords, plus
mode, style-tag, and mode-transition tables.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		progs, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		stats.Collect(progs).Print(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
