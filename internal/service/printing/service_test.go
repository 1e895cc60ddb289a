package printing

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
	"printshop/internal/storage"
)

func TestRequestPrint(t *testing.T) {
	dir, err := storage.NewDir(t.TempDir())
	require.NoError(t, err)
	_, err = dir.Create("20240101-000000-abcdef01.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	svc := New(dir)

	assert.ErrorIs(t, svc.RequestPrint("20240101-000000-abcdef01.pdf"), domain.ErrNotImplemented)
	assert.ErrorIs(t, svc.RequestPrint("missing.pdf"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.RequestPrint("../etc/passwd"), domain.ErrNotFound)
}

type brokenLookup struct{}

func (brokenLookup) Stat(string) (domain.StoredFile, error) {
	return domain.StoredFile{}, errors.New("permission denied")
}

func TestRequestPrintLookupError(t *testing.T) {
	err := New(brokenLookup{}).RequestPrint("a.pdf")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrNotImplemented)
	assert.Contains(t, err.Error(), "permission denied")
}
