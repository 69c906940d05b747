// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the modulations CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the modulations CLI.
var rootCmd = &cobra.Command{
	Use:   "modulations",
	Short: "Expand and query a catalog of modulation progressions",
	Long: `modulations works with catalogs of modulation progressions: short chord
sequences that move music from one mode to another.

Use expand to synthesize new progressions by chaining compatible pairs,
validate to check a catalog file, stats for a catalog breakdown, and index
to build and query a local SQLite index.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./modulations.yaml or ~/.config/modulations/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("modulations")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "modulations"))
		}
	}

	viper.SetEnvPrefix("MODULATIONS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
