// Package diff renders unified diffs between two versions of a config file.
package diff

import (
	"fmt"
	"slices"

	"github.com/pmezard/go-difflib/difflib"
)

// Context is the number of unchanged lines shown around each hunk.
const Context = 3

// Unified returns a unified diff of oldLines against newLines with Context
// lines of context, headed "<label> (current)" and "<label> (new)". Lines
// must carry their own terminators. Identical inputs yield "".
func Unified(oldLines, newLines []string, label string) (string, error) {
	if slices.Equal(oldLines, newLines) {
		return "", nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        oldLines,
		B:        newLines,
		FromFile: label + " (current)",
		ToFile:   label + " (new)",
		Context:  Context,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render diff for %s: %w", label, err)
	}

	return text, nil
}
