// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laurentVeliscek/modulations-V2/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a catalog file is well-formed",
	Long: `Validate loads a catalog file and checks every record: unique ids,
non-empty modes and technique labels, roots in pitch-class range, and
non-empty chord sequences. The first violation is reported and the command
exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		progs, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		if err := catalog.Validate(progs); err != nil {
			return fmt.Errorf("invalid catalog %s: %w", args[0], err)
		}
		fmt.Printf("%s: %d progressions, all valid\n", args[0], len(progs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
