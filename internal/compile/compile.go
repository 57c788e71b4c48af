// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile invokes an external e-book compiler binary on an
// OPF bundle. Two tools are supported: Amazon's kindlegen and Calibre's
// ebook-convert. Invocation is a synchronous call returning the tool's
// combined output; a nonzero exit surfaces as a RunError carrying that
// output verbatim.
package compile

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/zinepress/pkg/types"
)

const (
	binKindlegen    = "kindlegen"
	binEbookConvert = "ebook-convert"
)

// ErrToolNotFound indicates no usable compiler binary is on PATH.
var ErrToolNotFound = errors.New("e-book compiler not found on PATH")

// RunError reports a compiler invocation that exited nonzero. Output is
// the tool's combined stdout and stderr, passed through for the user.
type RunError struct {
	Tool     string
	ExitCode int
	Output   string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s exited with status %d:\n%s",
		e.Tool, e.ExitCode, strings.TrimSpace(e.Output))
}

// Compiler transforms an OPF bundle into a device-readable e-book file.
type Compiler interface {
	// Name returns the tool name ("kindlegen" or "ebook-convert").
	Name() string

	// Available reports whether the tool binary exists on PATH.
	Available() bool

	// Compile builds the e-book at outPath from the manifest at opfPath
	// and returns the tool's combined output. outPath must be inside
	// the bundle directory.
	Compile(opfPath, outPath string) (string, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)

	// RunCombined runs name in dir and returns combined output and exit
	// code. err is non-nil only when the command could not be run at all.
	RunCombined(dir, name string, args ...string) (output string, exitCode int, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunCombined(dir, name string, args ...string) (string, int, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode(), nil
		}
		return string(out), 0, err
	}
	return string(out), 0, nil
}

var defaultExec executor = osExecutor{}

// Detect returns the compiler selected by tool, or, when tool is empty,
// the first available one (kindlegen first, then ebook-convert).
func Detect(tool types.CompileTool) (Compiler, error) {
	return detect(tool, defaultExec)
}

func detect(tool types.CompileTool, exec executor) (Compiler, error) {
	kindlegen := &Kindlegen{exec: exec}
	calibre := &EbookConvert{exec: exec}

	switch tool {
	case types.ToolKindlegen:
		if !kindlegen.Available() {
			return nil, fmt.Errorf("%s: %w (install it from Amazon)", binKindlegen, ErrToolNotFound)
		}
		return kindlegen, nil
	case types.ToolEbookConvert:
		if !calibre.Available() {
			return nil, fmt.Errorf("%s: %w (install Calibre)", binEbookConvert, ErrToolNotFound)
		}
		return calibre, nil
	case "":
		if kindlegen.Available() {
			return kindlegen, nil
		}
		if calibre.Available() {
			return calibre, nil
		}
		return nil, fmt.Errorf(
			"%w: install kindlegen or Calibre's ebook-convert", ErrToolNotFound)
	default:
		return nil, fmt.Errorf("unknown compile tool %q", tool)
	}
}
