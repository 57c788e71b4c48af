package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zinepress/internal/compile"
	"github.com/pdiddy/zinepress/internal/simplify"
	"github.com/pdiddy/zinepress/internal/source"
	"github.com/pdiddy/zinepress/internal/zine"
	"github.com/pdiddy/zinepress/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [username]",
	Short: "Build an e-book from your unread bookmarks",
	Long: `Build runs the whole pipeline: fetch the unread bookmarks for the
account, simplify each page to article HTML, assemble the articles into a
periodical bundle, and compile the bundle into the output file.

Pages that cannot be simplified become stub articles linking to the
original so the e-book always covers every unread bookmark.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("password", "", "account password (default: .secrets/pinboard-password)")
	buildCmd.Flags().StringP("output", "o", "unread.mobi", "output e-book path")
	buildCmd.Flags().Int("items", 0, "max unread bookmarks to include, oldest first (default 20)")
	buildCmd.Flags().StringSlice("skip", nil, "bookmark URLs to leave out")
	buildCmd.Flags().String("backend", "", "simplifier backend: parser-api or readability")
	buildCmd.Flags().String("parser-token", "", "remote parser API token (default: .secrets/parser-api-token)")
	buildCmd.Flags().String("title", "", "anthology title shown on the device")
	buildCmd.Flags().Bool("no-images", false, "skip downloading article images")
	buildCmd.Flags().String("tool", "", "compiler binary: kindlegen or ebook-convert (default: detect)")
	buildCmd.Flags().Bool("keep-staging", false, "keep the staging bundle directory for inspection")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide the bookmarking service username")
	}
	username := args[0]

	password, _ := cmd.Flags().GetString("password")
	password = secretDefault("pinboard-password", password)
	if password == "" {
		return fmt.Errorf("no password: pass --password or put it in .secrets/pinboard-password")
	}

	cfg := pipelineConfig()
	if items, _ := cmd.Flags().GetInt("items"); items > 0 {
		cfg.Source.MaxItems = items
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Simplify.Backend = types.SimplifyBackend(backend)
	}
	if token, _ := cmd.Flags().GetString("parser-token"); token != "" {
		cfg.Simplify.ParserToken = token
	} else if cfg.Simplify.ParserToken == "" {
		cfg.Simplify.ParserToken = secretDefault("parser-api-token", "")
	}
	if title, _ := cmd.Flags().GetString("title"); title != "" {
		cfg.Assembly.Title = title
	}
	if noImages, _ := cmd.Flags().GetBool("no-images"); noImages {
		cfg.Simplify.FetchImages = false
	}
	if tool, _ := cmd.Flags().GetString("tool"); tool != "" {
		cfg.Compile.Tool = types.CompileTool(tool)
	}
	if keep, _ := cmd.Flags().GetBool("keep-staging"); keep {
		cfg.Compile.KeepStaging = true
	}

	output, _ := cmd.Flags().GetString("output")
	skip, _ := cmd.Flags().GetStringSlice("skip")

	src := source.NewClient(&http.Client{Timeout: cfg.Source.Timeout}, cfg.Source)
	simp, err := simplify.New(&http.Client{Timeout: cfg.Simplify.Timeout}, cfg.Simplify)
	if err != nil {
		return err
	}
	comp, err := compile.Detect(cfg.Compile.Tool)
	if err != nil {
		return err
	}

	opts := zine.Options{
		Username:   username,
		Password:   password,
		OutputPath: output,
		Skip:       skip,
	}
	if _, err := zine.Build(cmd.Context(), src, simp, comp, cfg, opts, os.Stdout); err != nil {
		return err
	}
	return nil
}
