//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Export builds the CLI and converts the flomo export under input into out.
func Export(input, out string) error {
	mg.Deps(Build)
	fmt.Printf("[export] %s -> %s\n", input, out)
	return run(filepath.Join(binDir, binName), "--verbose", "--input", input, "--out", out)
}

// Index builds the CLI and rebuilds the memo index from the flomo export under input.
func Index(input string) error {
	mg.Deps(Build)
	return run(filepath.Join(binDir, binName), "--verbose", "index", "store", "--input", input)
}
