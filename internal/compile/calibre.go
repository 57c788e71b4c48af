// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	"fmt"
	"path/filepath"
)

// EbookConvert compiles bundles with Calibre's ebook-convert binary.
// The output format follows from outPath's extension.
type EbookConvert struct {
	exec executor
}

// NewEbookConvert returns an EbookConvert using the system executor.
func NewEbookConvert() *EbookConvert { return &EbookConvert{exec: defaultExec} }

// Name returns the tool name.
func (e *EbookConvert) Name() string { return binEbookConvert }

// Available reports whether ebook-convert is on PATH.
func (e *EbookConvert) Available() bool {
	_, err := e.exec.LookPath(binEbookConvert)
	return err == nil
}

// Compile runs ebook-convert on the manifest.
func (e *EbookConvert) Compile(opfPath, outPath string) (string, error) {
	if _, err := e.exec.LookPath(binEbookConvert); err != nil {
		return "", fmt.Errorf("%s: %w", binEbookConvert, ErrToolNotFound)
	}

	dir := filepath.Dir(opfPath)
	out, code, err := e.exec.RunCombined(dir, binEbookConvert,
		filepath.Base(opfPath), filepath.Base(outPath))
	if err != nil {
		return out, fmt.Errorf("running %s: %w", binEbookConvert, err)
	}
	if code != 0 {
		return out, &RunError{Tool: binEbookConvert, ExitCode: code, Output: out}
	}
	return out, nil
}
