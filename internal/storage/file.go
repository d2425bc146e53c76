package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StoredFile describes a license upload after it has been written to disk.
type StoredFile struct {
	OriginalFileName string
	StoredFileName   string
	FilePath         string
	FileSize         int64
	ContentType      string
}

type FileStore interface {
	StoreLicenseFile(name, contentType string, r io.Reader) (*StoredFile, error)
}

type localFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localFileStore{dir: dir}, nil
}

func (s *localFileStore) StoreLicenseFile(name, contentType string, r io.Reader) (*StoredFile, error) {
	stored := uuid.NewString() + filepath.Ext(name)
	path := filepath.Join(s.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &StoredFile{
		OriginalFileName: name,
		StoredFileName:   stored,
		FilePath:         path,
		FileSize:         size,
		ContentType:      contentType,
	}, nil
}
