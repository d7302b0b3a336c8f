// Package fswalk implements the bounded directory enumeration used by every
// detection scan. It walks with an explicit worklist instead of
// filepath.WalkDir so a single unreadable subtree never aborts the walk, caps
// file count and recursion depth, skips the shared set of noise directories,
// and detects symlink cycles by canonicalizing every visited directory.
package fswalk

import (
	"os"
	"path/filepath"
	"strings"
)

// Excluded is the canonical set of directory names never descended into:
// build output, dependency caches, and VCS metadata. Shared by every caller
// so detection, sample scanning, and source counting all agree on what noise
// looks like.
var Excluded = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".tox":         true,
	"bin":          true,
	"obj":          true,
	"target":       true,
	"build":        true,
	"dist":         true,
	"out":          true,
	".gradle":      true,
	".idea":        true,
	".vs":          true,
	".vscode":      true,
}

// Limits bounds a single enumeration.
type Limits struct {
	MaxFiles int // stop yielding after this many matches
	MaxDepth int // directories deeper than this are not entered
}

// DefaultLimits is generous enough for large monorepos while keeping a cold
// scan bounded.
var DefaultLimits = Limits{MaxFiles: 5000, MaxDepth: 10}

type workItem struct {
	dir   string
	depth int
}

// Enumerate returns paths of files under root whose base name matches
// pattern (an exact name or a single-level glob, matched case-insensitively).
// Results stop exactly at limits.MaxFiles; partial results are valid.
// Filesystem errors on a subtree skip that subtree and continue.
func Enumerate(root, pattern string, limits Limits) []string {
	lowered := strings.ToLower(pattern)
	return walk(root, limits, func(name string) bool {
		ok, err := filepath.Match(lowered, strings.ToLower(name))
		return err == nil && ok
	})
}

// EnumerateExts returns paths of files under root whose extension (lowercase,
// including the dot) is in exts. Same bounds and error behavior as Enumerate.
func EnumerateExts(root string, exts map[string]bool, limits Limits) []string {
	return walk(root, limits, func(name string) bool {
		return exts[strings.ToLower(filepath.Ext(name))]
	})
}

// EnumerateFunc returns paths of files under root whose base name satisfies
// match. Same bounds and error behavior as Enumerate. Used by callers that
// test one walk against many patterns at once.
func EnumerateFunc(root string, limits Limits, match func(name string) bool) []string {
	return walk(root, limits, match)
}

// walk drives the worklist. Directories are visited breadth-first in the
// sorted order os.ReadDir provides, so repeated walks over an unchanged tree
// yield identical results.
func walk(root string, limits Limits, match func(name string) bool) []string {
	if limits.MaxFiles <= 0 || limits.MaxDepth < 0 {
		return nil
	}

	visited := make(map[string]bool)
	queue := []workItem{{dir: root, depth: 0}}
	var results []string

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		// Canonicalize to catch symlink cycles: a directory whose resolved
		// form was already visited is a loop back into the tree.
		canonical, err := filepath.EvalSymlinks(item.dir)
		if err != nil {
			continue // vanished or unresolvable, skip subtree
		}
		if visited[canonical] {
			continue
		}
		visited[canonical] = true

		entries, err := os.ReadDir(item.dir)
		if err != nil {
			continue // permission denied etc., skip subtree
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || entry.Type()&os.ModeSymlink != 0 {
				if isDir(filepath.Join(item.dir, name)) {
					if item.depth < limits.MaxDepth && !Excluded[name] && !strings.HasPrefix(name, ".") {
						queue = append(queue, workItem{dir: filepath.Join(item.dir, name), depth: item.depth + 1})
					}
					continue
				}
			}
			if match(name) {
				results = append(results, filepath.Join(item.dir, name))
				if len(results) >= limits.MaxFiles {
					return results
				}
			}
		}
	}
	return results
}

// isDir reports whether path is a directory after following symlinks.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CountShallow counts immediate children of dir with the given extension.
// Used when scoring a bare project root so a parent does not claim files that
// belong to a subdirectory's module.
func CountShallow(dir, ext string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			n++
		}
	}
	return n
}

// CountRecursive counts files under dir with the given extension, bounded by
// limits.
func CountRecursive(dir, ext string, limits Limits) int {
	return len(EnumerateExts(dir, map[string]bool{strings.ToLower(ext): true}, limits))
}
