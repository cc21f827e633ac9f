// Package workspace implements the path-containment policy shared by
// the filesystem and shell tool executors: every resolved path must
// be a descendant of the configured workspace root (spec.md §4.2,
// §8's "canonical(P) is a descendant of workspace root" invariant).
package workspace

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned by Resolve when rel escapes root.
var ErrOutsideRoot = errors.New("path traversal / Invalid path")

// Resolve joins root and rel, cleans the result, and verifies it is
// still inside root. An empty rel resolves to root itself.
func Resolve(root, rel string) (string, error) {
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absRoot = filepath.Clean(absRoot)

	joined := filepath.Join(absRoot, rel)
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}
	absJoined = filepath.Clean(absJoined)

	if absJoined != absRoot && !strings.HasPrefix(absJoined, absRoot+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return absJoined, nil
}
