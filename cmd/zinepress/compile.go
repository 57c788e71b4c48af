package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zinepress/internal/compile"
	"github.com/pdiddy/zinepress/pkg/types"
)

var compileCmd = &cobra.Command{
	Use:   "compile [opf-path]",
	Short: "Compile an existing bundle into an e-book",
	Long: `Compile runs the e-book compiler on a previously assembled bundle
manifest. Useful after a build with --keep-staging, or for hand-edited
bundles.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "unread.mobi", "output e-book path")
	compileCmd.Flags().String("tool", "", "compiler binary: kindlegen or ebook-convert (default: detect)")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide the path of the bundle manifest (content.opf)")
	}
	opfPath := args[0]
	if _, err := os.Stat(opfPath); err != nil {
		return fmt.Errorf("bundle manifest: %w", err)
	}

	tool := types.CompileTool("")
	if name, _ := cmd.Flags().GetString("tool"); name != "" {
		tool = types.CompileTool(name)
	}
	comp, err := compile.Detect(tool)
	if err != nil {
		return err
	}

	// The compiler writes next to the manifest; copy out afterwards if
	// the requested output lives elsewhere.
	output, _ := cmd.Flags().GetString("output")
	bundleOut := filepath.Join(filepath.Dir(opfPath), filepath.Base(output))

	fmt.Printf("Compiling %s with %s\n", opfPath, comp.Name())
	if _, err := comp.Compile(opfPath, bundleOut); err != nil {
		return err
	}

	if absSame, err := samePath(bundleOut, output); err != nil {
		return err
	} else if !absSame {
		if err := copyFile(bundleOut, output); err != nil {
			return err
		}
	}
	fmt.Printf("Built %s\n", output)
	return nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

func copyFile(srcPath, destPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer in.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", destPath, err)
	}
	return out.Close()
}
