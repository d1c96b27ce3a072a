// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render orders memos and writes them as a single Markdown document
// that Obsidian, Logseq, and Typora can import.
//
// Each memo becomes a list item headed by its timestamp and tags, with one
// tab-indented paragraph per body line and an image embed per attachment:
//
//	- 2021-03-29 18:07:06  ,  #idea
//
//		test
//
//		hello world
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pdiddy/flomo-export/pkg/types"
)

// tagSeparator sits between the timestamp and the tag list in a memo header.
const tagSeparator = "  ,  "

// SortMemos orders memos by creation time, oldest first. Memos with equal
// timestamps keep their relative order.
func SortMemos(memos []types.Memo) {
	sort.SliceStable(memos, func(i, j int) bool {
		return memos[i].Less(memos[j])
	})
}

// RenderMemo returns the Markdown block for one memo.
func RenderMemo(m types.Memo) string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(m.CreatedAt)
	if len(m.Tags) > 0 {
		b.WriteString(tagSeparator)
		b.WriteString(strings.Join(m.Tags, " "))
	}
	b.WriteString("\n\n")

	for _, line := range strings.Split(m.Content, "\n") {
		if line == "" {
			continue
		}
		b.WriteString("\t")
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	for _, f := range m.Files {
		fmt.Fprintf(&b, "\n\n![%s](%s)", f, f)
	}

	b.WriteString("\n\n")
	return b.String()
}

// Render writes the Markdown block of every memo to w in slice order.
func Render(w io.Writer, memos []types.Memo) error {
	for _, m := range memos {
		if _, err := io.WriteString(w, RenderMemo(m)); err != nil {
			return fmt.Errorf("writing memo %s: %w", m.CreatedAt, err)
		}
	}
	return nil
}

// WriteFile renders memos into the file at path, replacing any existing
// content. The memos are written in slice order; callers sort first.
func WriteFile(path string, memos []types.Memo) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := Render(w, memos); err != nil {
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	return nil
}
