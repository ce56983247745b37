// Package workspace implements workspace discovery: a recursive, tolerant
// scan of a root directory for deck files, honoring hidden-segment rules,
// .reignore, and symlink safety.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nbarlow/slate/internal/logging"
)

// DeckEntry is one discovered deck file.
type DeckEntry struct {
	AbsolutePath string
	RelativePath string
	Name         string
}

// RootError tags a failure that prevents a scan from starting at all.
type RootError struct {
	Kind    RootErrorKind
	Path    string
	Op      string
	Message string
}

// RootErrorKind enumerates the root-level scan failures.
type RootErrorKind int

const (
	RootNotFound RootErrorKind = iota
	RootNotDirectory
	RootUnreadable
)

func (e *RootError) Error() string {
	switch e.Kind {
	case RootNotFound:
		return fmt.Sprintf("workspace root not found: %s", e.Path)
	case RootNotDirectory:
		return fmt.Sprintf("workspace root is not a directory: %s", e.Path)
	default:
		return fmt.Sprintf("workspace root unreadable: %s (%s): %s", e.Path, e.Op, e.Message)
	}
}

// Options configures a scan.
type Options struct {
	IncludeHidden       bool
	ExtraIgnorePatterns []string
}

// Scan recursively enumerates deck files under root, returning a
// deterministic list sorted ascending by RelativePath.
func Scan(root string, opts Options) ([]DeckEntry, error) {
	logging.Scan("starting scan of %s (include_hidden=%v)", root, opts.IncludeHidden)

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Scan("root not found: %s", root)
			return nil, &RootError{Kind: RootNotFound, Path: root}
		}
		logging.Scan("root unreadable: %s: %v", root, err)
		return nil, &RootError{Kind: RootUnreadable, Path: root, Op: "stat", Message: err.Error()}
	}
	if !info.IsDir() {
		logging.Scan("root is not a directory: %s", root)
		return nil, &RootError{Kind: RootNotDirectory, Path: root}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		logging.Scan("failed to resolve absolute path for %s: %v", root, err)
		return nil, &RootError{Kind: RootUnreadable, Path: root, Op: "abs", Message: err.Error()}
	}

	reignoreLines := LoadReignoreLines(filepath.Join(absRoot, ".reignore"))
	matcher := NewMatcher(reignoreLines, opts.ExtraIgnorePatterns)

	if _, err := os.ReadDir(absRoot); err != nil {
		return nil, &RootError{Kind: RootUnreadable, Path: absRoot, Op: "read_directory", Message: err.Error()}
	}

	var entries []DeckEntry
	worklist := []string{""} // relative paths of directories still to visit, LIFO

	for len(worklist) > 0 {
		n := len(worklist) - 1
		relDir := worklist[n]
		worklist = worklist[:n]

		absDir := filepath.Join(absRoot, relDir)
		dirEntries, err := os.ReadDir(absDir)
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				logging.Scan("skipping unreadable subtree %s: %v", absDir, err)
				continue // best-effort: skip subtree
			}
			return nil, &RootError{Kind: RootUnreadable, Path: absDir, Op: "read_directory", Message: err.Error()}
		}

		for _, de := range dirEntries {
			rel := de.Name()
			if relDir != "" {
				rel = relDir + "/" + de.Name()
			}
			abs := filepath.Join(absRoot, rel)

			if !opts.IncludeHidden && hasHiddenSegment(rel) {
				continue
			}

			if isSymlink(abs) {
				continue
			}

			fi, err := os.Stat(abs)
			if err != nil {
				if os.IsNotExist(err) || os.IsPermission(err) {
					continue
				}
				return nil, &RootError{Kind: RootUnreadable, Path: abs, Op: "stat", Message: err.Error()}
			}

			if fi.IsDir() {
				if matcher.Match(rel + "/") {
					continue
				}
				worklist = append(worklist, rel)
				continue
			}

			if matcher.Match(rel) {
				continue
			}
			if strings.ToLower(filepath.Ext(rel)) != ".md" {
				continue
			}

			entries = append(entries, DeckEntry{
				AbsolutePath: abs,
				RelativePath: rel,
				Name:         strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)),
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelativePath < entries[j].RelativePath })
	logging.Scan("scan of %s complete: %d deck(s) found", root, len(entries))
	return entries, nil
}

func hasHiddenSegment(relPath string) bool {
	for _, seg := range strings.Split(relPath, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// isSymlink reports whether path should be treated as a symlink and
// skipped. A successful readlink means it is one; permission/not-found on
// the readlink call are treated as "skip" too (the entry is unreachable
// either way); any other error (EINVAL and friends) means "not a symlink".
func isSymlink(path string) bool {
	if _, err := os.Readlink(path); err != nil {
		return os.IsNotExist(err) || os.IsPermission(err)
	}
	return true
}
