// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export runs the flomo export pipeline: find the HTML pages of an
// export, parse their memos, order them by creation time, and write one
// Markdown document.
package export

import (
	"fmt"
	"io"

	"github.com/pdiddy/flomo-export/internal/archive"
	"github.com/pdiddy/flomo-export/internal/render"
	"github.com/pdiddy/flomo-export/pkg/types"
)

const (
	// DefaultInputDir is searched when no input directory is configured.
	DefaultInputDir = "."
	// DefaultOutputPath is written when no output path is configured.
	DefaultOutputPath = "flomo_export.md"
)

// Summary holds the counts of an export run.
type Summary struct {
	Files int
	Memos int
}

// Collect parses every HTML page below inputDir and returns all memos sorted
// oldest first. Progress is written to w. Any unreadable or malformed page
// aborts the run.
func Collect(inputDir string, w io.Writer) ([]types.Memo, Summary, error) {
	paths, err := archive.FindHTML(inputDir)
	if err != nil {
		return nil, Summary{}, err
	}

	var (
		memos   []types.Memo
		summary Summary
	)
	for _, path := range paths {
		parsed, err := archive.ParseFile(path)
		if err != nil {
			return nil, summary, err
		}
		fmt.Fprintf(w, "parsed %s (%d memos)\n", path, len(parsed))
		memos = append(memos, parsed...)
		summary.Files++
	}
	summary.Memos = len(memos)

	render.SortMemos(memos)
	return memos, summary, nil
}

// Run exports the memos found below cfg.InputDir to cfg.OutputPath.
// Empty config fields fall back to DefaultInputDir and DefaultOutputPath.
// Nothing is written when parsing fails.
func Run(cfg types.ExportConfig, w io.Writer) (Summary, error) {
	cfg = withDefaults(cfg)

	memos, summary, err := Collect(cfg.InputDir, w)
	if err != nil {
		return summary, err
	}

	if err := render.WriteFile(cfg.OutputPath, memos); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "exported %d memos from %d files to %s\n", summary.Memos, summary.Files, cfg.OutputPath)
	return summary, nil
}

func withDefaults(cfg types.ExportConfig) types.ExportConfig {
	if cfg.InputDir == "" {
		cfg.InputDir = DefaultInputDir
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	return cfg
}
