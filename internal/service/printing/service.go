package printing

import (
	"github.com/pkg/errors"

	"printshop/internal/domain"
)

const (
	MsgFileNotFound = "File not found"
	MsgDisabled     = "Server-side printing disabled. Download and print locally."
)

type fileLookup interface {
	Stat(name string) (domain.StoredFile, error)
}

// Service accepts print requests for uploaded files. Spooling is not wired up,
// so every request for an existing file ends in domain.ErrNotImplemented.
type Service struct {
	uploads fileLookup
}

func New(uploads fileLookup) *Service {
	return &Service{uploads: uploads}
}

// RequestPrint returns domain.ErrNotFound for unknown uploads and
// domain.ErrNotImplemented otherwise. Other errors come from the file lookup.
func (s *Service) RequestPrint(filename string) error {
	if _, err := s.uploads.Stat(filename); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return errors.Wrap(err, "look up upload")
	}
	return domain.ErrNotImplemented
}
