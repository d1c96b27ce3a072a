// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// htmlExt is the extension of memo pages in a flomo export.
const htmlExt = ".html"

// FindHTML walks root recursively and returns the path of every *.html file
// in lexical walk order. It fails if root does not exist, is not a directory,
// or any directory below it cannot be read.
func FindHTML(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != htmlExt {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking input directory %s: %w", root, err)
	}
	return paths, nil
}
