// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// kindlegenWarnings marks the kindlegen output line for a build that
// succeeded with warnings. The tool exits 1 in that case, and warnings
// are expected for most real pages, so it counts as success.
const kindlegenWarnings = "Mobi file built with WARNINGS"

// Kindlegen compiles bundles with Amazon's kindlegen binary.
type Kindlegen struct {
	exec executor
}

// NewKindlegen returns a Kindlegen using the system executor.
func NewKindlegen() *Kindlegen { return &Kindlegen{exec: defaultExec} }

// Name returns the tool name.
func (k *Kindlegen) Name() string { return binKindlegen }

// Available reports whether kindlegen is on PATH.
func (k *Kindlegen) Available() bool {
	_, err := k.exec.LookPath(binKindlegen)
	return err == nil
}

// Compile runs kindlegen on the manifest. kindlegen writes its output
// next to the manifest, so the run happens inside the bundle directory
// and only the basename of outPath is passed.
func (k *Kindlegen) Compile(opfPath, outPath string) (string, error) {
	if _, err := k.exec.LookPath(binKindlegen); err != nil {
		return "", fmt.Errorf("%s: %w", binKindlegen, ErrToolNotFound)
	}

	dir := filepath.Dir(opfPath)
	out, code, err := k.exec.RunCombined(dir, binKindlegen,
		filepath.Base(opfPath), "-o", filepath.Base(outPath))
	if err != nil {
		return out, fmt.Errorf("running %s: %w", binKindlegen, err)
	}
	if code != 0 && !strings.Contains(out, kindlegenWarnings) {
		return out, &RunError{Tool: binKindlegen, ExitCode: code, Output: out}
	}
	return out, nil
}
