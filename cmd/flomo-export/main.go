// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the flomo-export CLI.
//
// Run without a subcommand, flomo-export converts the flomo HTML export found
// under --input into one Markdown file at --out. The index subcommands keep
// the same memos in a searchable SQLite database.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/flomo-export/internal/export"
	"github.com/pdiddy/flomo-export/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the flomo-export CLI. It runs the export.
var rootCmd = &cobra.Command{
	Use:   "flomo-export",
	Short: "Convert a flomo HTML export into one Markdown file",
	Long: `flomo-export reads the HTML pages of a flomo export, extracts every memo
with its timestamp, tags, and images, and writes them oldest first to a single
Markdown document that Obsidian, Logseq, or Typora can import.

Bold text is kept as **bold**, hashtags are moved to the memo header, and
images become ![src](src) embeds. A successful run prints nothing.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := types.ExportConfig{
		InputDir:   viper.GetString("input"),
		OutputPath: viper.GetString("out"),
	}
	_, err := export.Run(cfg, progress())
	return err
}

// progress returns the writer for progress messages: stderr with --verbose,
// otherwise a sink.
func progress() io.Writer {
	if viper.GetBool("verbose") {
		return os.Stderr
	}
	return io.Discard
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./flomo-export.yaml or ~/.config/flomo-export/flomo-export.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "report progress on stderr")

	rootCmd.Flags().String("input", export.DefaultInputDir, "directory searched recursively for *.html export pages")
	rootCmd.Flags().String("out", export.DefaultOutputPath, "Markdown file to write (overwritten)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("input", rootCmd.Flags().Lookup("input"))
	viper.BindPFlag("out", rootCmd.Flags().Lookup("out"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("flomo-export")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "flomo-export"))
		}
	}

	viper.SetEnvPrefix("FLOMO_EXPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(progress(), "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: could not read config %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
