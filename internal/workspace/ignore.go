package workspace

import (
	"bufio"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// pattern is one compiled line from a .reignore file or the caller-supplied
// extra patterns list.
type pattern struct {
	glob    string
	negate  bool
	dirOnly bool
}

// Matcher is an ordered gitignore-style pattern list; later patterns
// override earlier ones for a given candidate.
type Matcher struct {
	patterns []pattern
}

// NewMatcher builds a Matcher from newline-separated pattern lines
// (typically the contents of .reignore) followed by extra patterns.
// Blank lines, #-comments, and malformed patterns are dropped.
func NewMatcher(reignoreLines []string, extra []string) *Matcher {
	m := &Matcher{}
	for _, line := range reignoreLines {
		m.add(line)
	}
	for _, line := range extra {
		m.add(line)
	}
	return m
}

// LoadReignoreLines reads <root>/.reignore, returning its lines (or nil if
// the file doesn't exist). I/O errors besides not-found are tolerated too:
// a missing ignore file is not fatal to a scan.
func LoadReignoreLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func (m *Matcher) add(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}
	p, ok := parsePattern(trimmed)
	if !ok {
		return
	}
	m.patterns = append(m.patterns, p)
}

func parsePattern(line string) (pattern, bool) {
	negate := strings.HasPrefix(line, "!")
	if negate {
		line = line[1:]
	}
	dirOnly := strings.HasSuffix(line, "/")
	if dirOnly {
		line = strings.TrimSuffix(line, "/")
	}
	anchored := strings.HasPrefix(line, "/")
	if anchored {
		line = line[1:]
	}
	if line == "" {
		return pattern{}, false
	}

	glob := line
	if !anchored && !strings.Contains(glob, "/") {
		glob = "**/" + glob
	}

	if _, err := doublestar.Match(glob, "probe"); err != nil {
		return pattern{}, false
	}

	return pattern{glob: glob, negate: negate, dirOnly: dirOnly}, true
}

// Match reports whether candidate (a relative path, with a trailing "/" for
// directory candidates) is ignored.
func (m *Matcher) Match(candidate string) bool {
	isDirCandidate := strings.HasSuffix(candidate, "/")
	bare := strings.TrimSuffix(candidate, "/")

	matched := false
	for _, p := range m.patterns {
		if p.dirOnly && !isDirCandidate {
			continue
		}
		if ok, _ := doublestar.Match(p.glob, bare); ok {
			matched = !p.negate
		}
	}
	return matched
}
