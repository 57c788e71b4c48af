// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the zinepress CLI. The pipeline
// stages are subcommands: fetch lists unread bookmarks, simplify turns
// pages into article HTML, compile runs the e-book tool on a bundle,
// and build chains the whole pipeline into one e-book.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/zinepress/internal/secrets"
	"github.com/pdiddy/zinepress/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, the secret value for key
// otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the zinepress CLI.
var rootCmd = &cobra.Command{
	Use:   "zinepress",
	Short: "Turn unread bookmarks into an e-book",
	Long: `zinepress fetches your unread bookmarks, simplifies each page down to
readable article HTML, assembles the articles into a periodical bundle, and
compiles the bundle into an e-book with kindlegen or Calibre's ebook-convert.

Each pipeline stage is also a subcommand: fetch, simplify, and compile run
one stage on its own; build runs them all.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./zinepress.yaml or ~/.config/zinepress/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("zinepress")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zinepress"))
		}
	}

	viper.SetEnvPrefix("ZINEPRESS")
	viper.AutomaticEnv()

	viper.SetDefault("http.timeout", 60*time.Second)
	viper.SetDefault("http.user_agent", "zinepress/"+version)
	viper.SetDefault("source.max_items", 20)
	viper.SetDefault("source.feed_count", 400)
	viper.SetDefault("simplify.fetch_images", true)
	viper.SetDefault("assembly.title", "Pinboard Unread")
	viper.SetDefault("assembly.language", "en")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from viper. Flags
// layer their overrides on top in each subcommand.
func pipelineConfig() types.PipelineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
	return types.PipelineConfig{
		Source: types.SourceConfig{
			HTTPConfig: httpCfg,
			APIBase:    viper.GetString("source.api_base"),
			FeedBase:   viper.GetString("source.feed_base"),
			MaxItems:   viper.GetInt("source.max_items"),
			FeedCount:  viper.GetInt("source.feed_count"),
		},
		Simplify: types.SimplifyConfig{
			HTTPConfig:  httpCfg,
			Backend:     types.SimplifyBackend(viper.GetString("simplify.backend")),
			ParserBase:  viper.GetString("simplify.parser_base"),
			ParserToken: viper.GetString("simplify.parser_token"),
			FetchImages: viper.GetBool("simplify.fetch_images"),
		},
		Assembly: types.AssemblyConfig{
			Title:    viper.GetString("assembly.title"),
			Language: viper.GetString("assembly.language"),
		},
		Compile: types.CompileConfig{
			Tool:        types.CompileTool(viper.GetString("compile.tool")),
			KeepStaging: viper.GetBool("compile.keep_staging"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
