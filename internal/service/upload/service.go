package upload

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"printshop/internal/domain"
)

const (
	MsgMissingFile    = "Please attach a file to print."
	MsgTypeNotAllowed = "File type not allowed."

	// maxNameAttempts bounds retries when a generated name is already taken.
	maxNameAttempts = 3
)

// AllowedExtensions lists the accepted upload types, lower-case.
var AllowedExtensions = map[string]struct{}{
	"pdf": {}, "txt": {}, "doc": {}, "docx": {}, "png": {}, "jpg": {}, "jpeg": {},
}

type fileStore interface {
	Create(name string, r io.Reader) (domain.StoredFile, error)
}

type Service struct {
	store fileStore
	now   func() time.Time
	name  func(now time.Time, ext string) (string, error)
}

func New(store fileStore, nameFn func(time.Time, string) (string, error)) *Service {
	return &Service{store: store, now: time.Now, name: nameFn}
}

// Accept validates the upload's extension and stores it under a fresh name.
func (s *Service) Accept(r io.Reader, originalFilename string) (domain.StoredFile, error) {
	if r == nil || strings.TrimSpace(originalFilename) == "" {
		return domain.StoredFile{}, domain.NewValidationError(MsgMissingFile)
	}
	ext, ok := AllowedExtension(originalFilename)
	if !ok {
		return domain.StoredFile{}, domain.NewValidationError(MsgTypeNotAllowed)
	}

	for attempt := 1; ; attempt++ {
		name, err := s.name(s.now(), ext)
		if err != nil {
			return domain.StoredFile{}, err
		}
		stored, err := s.store.Create(name, r)
		if errors.Is(err, os.ErrExist) && attempt < maxNameAttempts {
			continue
		}
		if err != nil {
			return domain.StoredFile{}, errors.Wrap(err, "store upload")
		}
		return stored, nil
	}
}

// AllowedExtension returns the lower-cased extension after the last dot and
// whether it is on the allow-list.
func AllowedExtension(filename string) (string, bool) {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return "", false
	}
	ext := strings.ToLower(filename[dot+1:])
	_, ok := AllowedExtensions[ext]
	return ext, ok
}
