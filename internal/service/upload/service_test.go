package upload

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
	"printshop/internal/storage"
)

func newService(t *testing.T) (*Service, *storage.Dir) {
	t.Helper()
	dir, err := storage.NewDir(t.TempDir())
	require.NoError(t, err)
	svc := New(dir, storage.UniqueName)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return svc, dir
}

func TestAcceptRejectsDisallowedExtension(t *testing.T) {
	svc, dir := newService(t)

	for _, name := range []string{"report.exe", "noextension", "archive.pdf.zip", "trailingdot."} {
		_, err := svc.Accept(strings.NewReader("x"), name)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "name %q", name)
		assert.Equal(t, MsgTypeNotAllowed, verr.Message)
	}

	names, err := dir.Names()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestAcceptMissingFile(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Accept(nil, "report.pdf")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgMissingFile, verr.Message)

	_, err = svc.Accept(strings.NewReader("x"), "  ")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgMissingFile, verr.Message)
}

func TestAcceptMixedCaseExtension(t *testing.T) {
	svc, _ := newService(t)

	stored, err := svc.Accept(strings.NewReader("%PDF-1.4"), "report.PDF")
	require.NoError(t, err)
	assert.Regexp(t, `^20240501-093000-[0-9a-f]{8}\.pdf$`, stored.Name)

	data, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestAcceptSameSecondUploadsAreDistinct(t *testing.T) {
	svc, dir := newService(t)

	a, err := svc.Accept(strings.NewReader("a"), "a.txt")
	require.NoError(t, err)
	b, err := svc.Accept(strings.NewReader("b"), "b.txt")
	require.NoError(t, err)
	assert.NotEqual(t, a.Name, b.Name)

	names, err := dir.Names()
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestAcceptRetriesOnCollision(t *testing.T) {
	dir, err := storage.NewDir(t.TempDir())
	require.NoError(t, err)
	_, err = dir.Create("taken.txt", strings.NewReader("old"))
	require.NoError(t, err)

	names := []string{"taken.txt", "fresh.txt"}
	calls := 0
	svc := New(dir, func(time.Time, string) (string, error) {
		n := names[calls]
		calls++
		return n, nil
	})

	stored, err := svc.Accept(strings.NewReader("new"), "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, "fresh.txt", stored.Name)
	assert.Equal(t, 2, calls)

	old, err := os.ReadFile(filepath.Join(dir.Root(), "taken.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

type failingStore struct{}

func (failingStore) Create(string, io.Reader) (domain.StoredFile, error) {
	return domain.StoredFile{}, errors.New("disk full")
}

func TestAcceptStoreError(t *testing.T) {
	svc := New(failingStore{}, storage.UniqueName)
	_, err := svc.Accept(strings.NewReader("x"), "a.png")
	require.Error(t, err)
	assert.False(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestAllowedExtension(t *testing.T) {
	for name, want := range map[string]string{"a.JPEG": "jpeg", "b.Docx": "docx", "c.tar.txt": "txt"} {
		ext, ok := AllowedExtension(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, ext)
	}
}
