// Package storage keeps uploaded files and rendered invoices in flat directories.
package storage

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"printshop/internal/domain"
)

// ErrInvalidName is returned for names that would escape the directory.
var ErrInvalidName = errors.New("invalid file name")

// Dir is a directory that files are written into exclusively and read back by name.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at root, creating it if absent.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.New("storage root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", root)
	}
	return &Dir{root: abs}, nil
}

func (d *Dir) Root() string {
	return d.root
}

// Resolve maps name to a path inside the directory. Names must be a single
// local path element.
func (d *Dir) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) ||
		filepath.IsAbs(name) ||
		!filepath.IsLocal(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(d.root, name), nil
}

// Create writes r to a new file called name. It fails with os.ErrExist if
// the file is already present.
func (d *Dir) Create(name string, r io.Reader) (domain.StoredFile, error) {
	path, err := d.Resolve(name)
	if err != nil {
		return domain.StoredFile{}, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return domain.StoredFile{}, errors.Wrapf(err, "create %s", name)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return domain.StoredFile{}, errors.Wrapf(err, "write %s", name)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return domain.StoredFile{}, errors.Wrapf(err, "close %s", name)
	}
	return domain.StoredFile{Name: name, Path: path}, nil
}

// Stat returns the stored file for name, or domain.ErrNotFound when it is
// absent or the name is not acceptable.
func (d *Dir) Stat(name string) (domain.StoredFile, error) {
	path, err := d.Resolve(name)
	if err != nil {
		return domain.StoredFile{}, domain.ErrNotFound
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.StoredFile{}, domain.ErrNotFound
		}
		return domain.StoredFile{}, errors.Wrapf(err, "stat %s", name)
	}
	if !info.Mode().IsRegular() {
		return domain.StoredFile{}, domain.ErrNotFound
	}
	return domain.StoredFile{Name: name, Path: path}, nil
}

// Names lists the regular files in the directory.
func (d *Dir) Names() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", d.root)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// UniqueName builds "<YYYYMMDD-HHMMSS>-<8 hex>.<ext>". The timestamp keeps
// names sortable; the random suffix separates uploads within the same second.
func UniqueName(now time.Time, ext string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "generate suffix")
	}
	return now.Format("20060102-150405") + "-" + hex.EncodeToString(id[:4]) + "." + ext, nil
}
