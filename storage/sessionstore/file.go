package sessionstore

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core/session"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type fileStorage struct {
	dir string
}

var _ session.Storage = (*fileStorage)(nil)

// NewFileStorage stores each key as a JSON file under dir (created on first save).
func NewFileStorage(dir string) session.Storage {
	return &fileStorage{dir: dir}
}

func (s *fileStorage) path(key string) string {
	return filepath.Join(s.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (s *fileStorage) Load(_ context.Context, key string) ([]byte, error) {
	data, err := ioutil.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", s.path(key))
	}
	return data, nil
}

// Save writes to a temporary file then renames it, so readers never see a torn session.
func (s *fileStorage) Save(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", s.dir)
	}
	tmp, err := ioutil.TempFile(s.dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing session")
	}
	if err = tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "chmod session")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing session")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path(key)), "renaming session")
}

func (s *fileStorage) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", s.path(key))
	}
	return nil
}
