package fsx

import (
	"fmt"
	"github.com/gobwas/glob"
	"path/filepath"
)

// PathMatcher matches paths against a set of glob patterns. A pattern matches when it
// matches either the full path or the base name, so "*.tmp" and "/mnt/*/cache" both work.
type PathMatcher struct {
	patterns []string
	matchers []glob.Glob
}

// NewPathMatcher compiles all patterns to glob matchers using the OS path separator.
//
// Returns:
//   - A matcher, or nil when no patterns are given.
//   - An error if any pattern cannot be compiled.
func NewPathMatcher(patterns []string) (*PathMatcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	pm := &PathMatcher{patterns: patterns}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf("failed to compile glob pattern '%s': %w", pattern, err)
		}
		pm.matchers = append(pm.matchers, g)
	}

	return pm, nil
}

// Match reports whether path or its base name matches any pattern.
func (pm *PathMatcher) Match(path string) bool {
	if pm == nil {
		return false
	}

	base := filepath.Base(path)
	for _, m := range pm.matchers {
		if m.Match(path) || m.Match(base) {
			return true
		}
	}

	return false
}

// Patterns returns the source patterns.
func (pm *PathMatcher) Patterns() []string {
	if pm == nil {
		return nil
	}
	return pm.patterns
}
