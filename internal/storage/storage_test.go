package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
)

func TestResolveRejectsTraversal(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../secret", "a/../../b", "/etc/passwd", `..\win`, "sub/file.txt", "a..b"} {
		_, err := dir.Resolve(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}

	path, err := dir.Resolve("invoice-ABC.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir.Root(), "invoice-ABC.html"), path)
}

func TestCreateDoesNotOverwrite(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)

	f, err := dir.Create("a.txt", strings.NewReader("first"))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", f.Name)

	_, err = dir.Create("a.txt", strings.NewReader("second"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)

	data, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestStat(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)
	_, err = dir.Create("present.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir.Root(), "subdir"), 0o755))

	got, err := dir.Stat("present.pdf")
	require.NoError(t, err)
	assert.Equal(t, "present.pdf", got.Name)

	for _, name := range []string{"absent.pdf", "../present.pdf", "subdir"} {
		_, err := dir.Stat(name)
		assert.ErrorIs(t, err, domain.ErrNotFound, "name %q", name)
	}
}

func TestNames(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)
	_, err = dir.Create("b.txt", strings.NewReader("b"))
	require.NoError(t, err)
	_, err = dir.Create("a.txt", strings.NewReader("a"))
	require.NoError(t, err)

	names, err := dir.Names()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)
}

func TestUniqueNameFormat(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	name, err := UniqueName(now, "pdf")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^20240309-140507-[0-9a-f]{8}\.pdf$`), name)
}

func TestUniqueNameDistinctWithinSameSecond(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		name, err := UniqueName(now, "txt")
		require.NoError(t, err)
		_, dup := seen[name]
		require.False(t, dup, "duplicate name %s", name)
		seen[name] = struct{}{}
	}
}
