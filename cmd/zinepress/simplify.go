package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zinepress/internal/assemble"
	"github.com/pdiddy/zinepress/internal/simplify"
	"github.com/pdiddy/zinepress/pkg/types"
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify [urls...]",
	Short: "Simplify pages to article HTML files",
	Long: `Simplify extracts the readable article from each URL and writes it as
sanitized HTML into the output directory, one file per URL. Pages that fail
extraction are reported and skipped.`,
	RunE: runSimplify,
}

func init() {
	simplifyCmd.Flags().String("output-dir", "articles", "directory for article HTML files")
	simplifyCmd.Flags().String("backend", "", "simplifier backend: parser-api or readability")
	simplifyCmd.Flags().String("parser-token", "", "remote parser API token (default: .secrets/parser-api-token)")
	simplifyCmd.Flags().Bool("no-images", false, "skip downloading article images")

	rootCmd.AddCommand(simplifyCmd)
}

func runSimplify(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more page URLs")
	}

	cfg := pipelineConfig()
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Simplify.Backend = types.SimplifyBackend(backend)
	}
	if token, _ := cmd.Flags().GetString("parser-token"); token != "" {
		cfg.Simplify.ParserToken = token
	} else if cfg.Simplify.ParserToken == "" {
		cfg.Simplify.ParserToken = secretDefault("parser-api-token", "")
	}
	if noImages, _ := cmd.Flags().GetBool("no-images"); noImages {
		cfg.Simplify.FetchImages = false
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")

	client := &http.Client{Timeout: cfg.Simplify.Timeout}
	simp, err := simplify.New(client, cfg.Simplify)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	failed := 0
	for _, pageURL := range args {
		bm := types.Bookmark{URL: pageURL}
		art, err := simp.Simplify(cmd.Context(), bm)
		if errors.Is(err, simplify.ErrAuth) {
			return err
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:     %s (%v)\n", pageURL, err)
			failed++
			continue
		}
		art.Body = simplify.SanitizeBody(art.Body)
		if cfg.Simplify.FetchImages {
			if imgErr := simplify.LocalizeImages(cmd.Context(), client, art, outputDir, cfg.Simplify.UserAgent); imgErr != nil {
				fmt.Fprintf(os.Stderr, "keeping remote images for %s: %v\n", pageURL, imgErr)
			}
		}

		path := filepath.Join(outputDir, assemble.ArticleFilename(*art))
		if err := os.WriteFile(path, []byte(art.Body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("simplified: %s -> %s\n", pageURL, path)
	}

	if failed > 0 {
		return fmt.Errorf("%d page(s) failed simplification", failed)
	}
	return nil
}
