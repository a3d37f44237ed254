// Package gha writes step outputs for GitHub Actions, supporting both
// the $GITHUB_OUTPUT file and the legacy ::set-output syntax.
package gha

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Outputs are the values the workflow step publishes downstream.
type Outputs struct {
	Changed bool
	Title   string
	Details string
}

// Write publishes the outputs. When GITHUB_OUTPUT is set the values are
// appended to that file, multiline values through a heredoc delimiter;
// otherwise legacy workflow commands go to fallback.
func (o Outputs) Write(fallback io.Writer) error {
	pairs := []struct{ key, value string }{
		{"docs-changed", fmt.Sprintf("%t", o.Changed)},
		{"title", o.Title},
		{"details", o.Details},
	}

	if path := os.Getenv("GITHUB_OUTPUT"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open GITHUB_OUTPUT: %w", err)
		}
		defer f.Close()
		for _, p := range pairs {
			if err := writeFilePair(f, p.key, p.value); err != nil {
				return fmt.Errorf("write GITHUB_OUTPUT: %w", err)
			}
		}
		return nil
	}

	for _, p := range pairs {
		fmt.Fprintf(fallback, "::set-output name=%s::%s\n", p.key, escapeLegacy(p.value))
	}
	return nil
}

func writeFilePair(w io.Writer, key, value string) error {
	if !strings.Contains(value, "\n") {
		_, err := fmt.Fprintf(w, "%s=%s\n", key, value)
		return err
	}
	delim := "ghadelim_" + uuid.NewString()
	_, err := fmt.Fprintf(w, "%s<<%s\n%s\n%s\n", key, delim, value, delim)
	return err
}

// escapeLegacy encodes the characters the legacy workflow-command
// parser treats specially.
func escapeLegacy(v string) string {
	v = strings.ReplaceAll(v, "%", "%25")
	v = strings.ReplaceAll(v, "\r", "%0D")
	return strings.ReplaceAll(v, "\n", "%0A")
}
