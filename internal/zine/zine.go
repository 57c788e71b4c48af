// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zine orchestrates one build run: fetch the unread bookmarks,
// simplify each page in order, assemble the bundle, compile it, and move
// the e-book into place. A run either completes with an output file or
// aborts leaving none.
package zine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/zinepress/internal/assemble"
	"github.com/pdiddy/zinepress/internal/compile"
	"github.com/pdiddy/zinepress/internal/simplify"
	"github.com/pdiddy/zinepress/internal/source"
	"github.com/pdiddy/zinepress/pkg/types"
)

// Source yields the unread bookmarks for an account.
type Source interface {
	FetchUnread(ctx context.Context, username, password string) ([]types.Bookmark, error)
}

// Options holds the per-run parameters not covered by configuration.
type Options struct {
	// Username is the bookmarking service account.
	Username string

	// Password is the account password, held only for the source call.
	Password string

	// OutputPath is where the finished e-book lands.
	OutputPath string

	// Skip lists bookmark URLs to leave out of this run.
	Skip []string
}

// BuildResult summarizes one run.
type BuildResult struct {
	Simplified int
	Stubbed    int
	Skipped    int
	Compiled   bool
}

// Total returns the number of bookmarks processed, including skips.
func (r BuildResult) Total() int {
	return r.Simplified + r.Stubbed + r.Skipped
}

// Build runs the whole pipeline. Per-bookmark extraction failures degrade
// to stub articles; every other failure aborts the run. With zero unread
// bookmarks the run succeeds without invoking the compiler.
func Build(ctx context.Context, src Source, simp simplify.Simplifier, comp compile.Compiler, cfg types.PipelineConfig, opts Options, w io.Writer) (BuildResult, error) {
	var result BuildResult

	bookmarks, err := fetchWithRetry(ctx, src, opts, w)
	if err != nil {
		return result, err
	}

	skip := make(map[string]bool, len(opts.Skip))
	for _, u := range opts.Skip {
		skip[u] = true
	}

	if len(bookmarks) == 0 {
		fmt.Fprintln(w, "No unread bookmarks; nothing to build.")
		return result, nil
	}

	staging, err := os.MkdirTemp("", "zinepress-")
	if err != nil {
		return result, fmt.Errorf("creating staging directory: %w", err)
	}
	defer func() {
		if cfg.Compile.KeepStaging {
			fmt.Fprintf(w, "Staging bundle kept at %s\n", staging)
			return
		}
		os.RemoveAll(staging)
	}()
	logrus.Debugf("staging bundle in %s", staging)

	pageClient := &http.Client{Timeout: cfg.Simplify.Timeout}

	articles := make([]types.Article, 0, len(bookmarks))
	for _, bm := range bookmarks {
		if skip[bm.URL] {
			fmt.Fprintf(w, "skipped:    %s (as requested)\n", bm.URL)
			result.Skipped++
			continue
		}

		art, err := simp.Simplify(ctx, bm)
		switch {
		case errors.Is(err, simplify.ErrAuth):
			return result, fmt.Errorf("simplifying %s: %w", bm.URL, err)
		case err != nil:
			fmt.Fprintf(w, "stubbed:    %s (%v)\n", bm.URL, err)
			art = simplify.StubArticle(bm)
			result.Stubbed++
		default:
			art.Body = simplify.SanitizeBody(art.Body)
			if cfg.Simplify.FetchImages {
				if imgErr := simplify.LocalizeImages(ctx, pageClient, art, staging, cfg.Simplify.UserAgent); imgErr != nil {
					logrus.Debugf("keeping remote images for %s: %v", bm.URL, imgErr)
				}
			}
			fmt.Fprintf(w, "simplified: %s\n", bm.URL)
			result.Simplified++
		}
		articles = append(articles, *art)
	}

	if len(articles) == 0 {
		fmt.Fprintln(w, "All unread bookmarks were skipped; nothing to build.")
		return result, nil
	}

	title := cfg.Assembly.Title
	if title == "" {
		title = "Pinboard Unread"
	}
	anth := types.Anthology{
		Title:    title,
		UID:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		Language: cfg.Assembly.Language,
		Created:  time.Now().UTC(),
		Articles: articles,
	}

	bundle, err := assemble.Write(anth, staging)
	if err != nil {
		return result, fmt.Errorf("assembling bundle: %w", err)
	}

	stagingOut := filepath.Join(staging, filepath.Base(opts.OutputPath))
	output, err := comp.Compile(bundle.OPFPath, stagingOut)
	if err != nil {
		var runErr *compile.RunError
		if errors.As(err, &runErr) {
			logPath := opts.OutputPath + ".log"
			if logErr := os.WriteFile(logPath, []byte(runErr.Output), 0o644); logErr == nil {
				fmt.Fprintf(w, "Compiler output saved to %s\n", logPath)
			}
		}
		return result, fmt.Errorf("compiling e-book: %w", err)
	}
	logrus.Debugf("compiler output:\n%s", output)

	if err := moveIntoPlace(stagingOut, opts.OutputPath); err != nil {
		return result, err
	}
	result.Compiled = true

	fmt.Fprintf(w, "\nBuilt %s: %d articles (%d simplified, %d stubbed, %d skipped)\n",
		opts.OutputPath, result.Simplified+result.Stubbed, result.Simplified, result.Stubbed, result.Skipped)
	return result, nil
}

// fetchWithRetry fetches the unread bookmarks, retrying exactly once on a
// transient source failure.
func fetchWithRetry(ctx context.Context, src Source, opts Options, w io.Writer) ([]types.Bookmark, error) {
	bookmarks, err := src.FetchUnread(ctx, opts.Username, opts.Password)
	if errors.Is(err, source.ErrTransient) {
		fmt.Fprintf(w, "Bookmark fetch failed (%v), retrying once\n", err)
		bookmarks, err = src.FetchUnread(ctx, opts.Username, opts.Password)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching unread bookmarks: %w", err)
	}
	return bookmarks, nil
}

// moveIntoPlace copies the compiled file from staging to its final path
// using a temp file and rename, so a fatal abort never leaves a partial
// output file behind.
func moveIntoPlace(srcPath, destPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening compiled e-book: %w", err)
	}
	defer in.Close()

	destDir := filepath.Dir(destPath)
	tmp, err := os.CreateTemp(destDir, ".zinepress-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, in)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output file: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing output file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming output file: %w", err)
	}
	return nil
}
