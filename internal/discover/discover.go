// Package discover expands the configured glob patterns into the list
// of project files handed to the engine.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/modreport/modreport/internal/diag"
)

// Projects resolves the glob patterns to existing project files. A
// literal pattern naming a missing file is skipped with a warning; it
// never fails the run.
func Projects(patterns []string, sink diag.Sink) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if _, err := os.Stat(pattern); err != nil {
				sink.Warnf("project file %s not found, skipping", pattern)
				continue
			}
			add(pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid project pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			sink.Warnf("project pattern %s matched nothing", pattern)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(files)
	return files, nil
}
