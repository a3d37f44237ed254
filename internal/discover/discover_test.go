package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modreport/modreport/internal/diag"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("module x\n"), 0644))
}

func TestProjectsGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bot", "go.mod"))
	writeFile(t, filepath.Join(dir, "lib", "util", "go.mod"))

	sink := &diag.Collector{}
	files, err := Projects([]string{filepath.Join(dir, "**", "go.mod")}, sink)
	require.NoError(t, err)

	assert.Len(t, files, 2)
	assert.Empty(t, sink.Entries)
}

func TestProjectsMissingLiteralIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bot", "go.mod"))

	sink := &diag.Collector{}
	files, err := Projects([]string{
		filepath.Join(dir, "bot", "go.mod"),
		filepath.Join(dir, "gone", "go.mod"),
	}, sink)
	require.NoError(t, err)

	assert.Len(t, files, 1)
	require.Len(t, sink.Entries, 1)
	assert.Contains(t, sink.Entries[0].Message, "not found")
}

func TestProjectsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	mod := filepath.Join(dir, "bot", "go.mod")
	writeFile(t, mod)

	sink := &diag.Collector{}
	files, err := Projects([]string{mod, filepath.Join(dir, "*", "go.mod")}, sink)
	require.NoError(t, err)
	assert.Equal(t, []string{mod}, files)
}
