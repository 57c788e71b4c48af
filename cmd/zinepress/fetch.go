package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/zinepress/internal/source"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [username]",
	Short: "List your unread bookmarks, oldest first",
	Long: `Fetch authenticates against the bookmarking service and prints the
unread bookmarks that a build would include, oldest first. Use --format yaml
for machine-readable output.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("password", "", "account password (default: .secrets/pinboard-password)")
	fetchCmd.Flags().Int("items", 0, "max unread bookmarks to list, oldest first (default 20)")
	fetchCmd.Flags().String("format", "text", "output format: text or yaml")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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

	src := source.NewClient(&http.Client{Timeout: cfg.Source.Timeout}, cfg.Source)
	bookmarks, err := src.FetchUnread(cmd.Context(), username, password)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml":
		out, err := yaml.Marshal(bookmarks)
		if err != nil {
			return fmt.Errorf("encoding bookmarks: %w", err)
		}
		os.Stdout.Write(out)
	case "text":
		if len(bookmarks) == 0 {
			fmt.Println("No unread bookmarks.")
			return nil
		}
		for _, bm := range bookmarks {
			title := bm.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("%s  %s\n    %s\n", bm.Saved.Format("2006-01-02"), title, bm.URL)
		}
		fmt.Printf("\n%d unread bookmark(s)\n", len(bookmarks))
	default:
		return fmt.Errorf("unknown format %q (use text or yaml)", format)
	}
	return nil
}
