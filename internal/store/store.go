// Package store implements per-collection key->document storage on the
// local filesystem. Every document lives in <base>/<collection>/<key>.json
// and is published atomically, so a concurrent reader never observes a
// partial write.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

const docExt = ".json"

type Store struct {
	baseDir string
}

// New opens a store rooted at baseDir and makes sure every named collection
// directory exists.
func New(baseDir string, collections ...string) (*Store, error) {
	for _, c := range collections {
		if err := os.MkdirAll(filepath.Join(baseDir, c), 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure collection %q: %w", c, err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) BaseDir() string {
	return s.baseDir
}

func (s *Store) docPath(collection, key string) string {
	return filepath.Join(s.baseDir, collection, key+docExt)
}

// Create writes a new document and fails with ErrAlreadyExists if the key is
// taken. The document is written to a temp file first and then hard-linked
// into place; the link either fully succeeds or fails, so no reader can see
// a half-written document.
func (s *Store) Create(collection, key string, document []byte) error {
	tmp, err := s.writeTemp(collection, document)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, s.docPath(collection, key)); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("store: create %s/%s: %w", collection, key, ErrAlreadyExists)
		}
		return fmt.Errorf("store: create %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) Read(collection, key string) ([]byte, error) {
	data, err := os.ReadFile(s.docPath(collection, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store: read %s/%s: %w", collection, key, ErrNotFound)
		}
		return nil, fmt.Errorf("store: read %s/%s: %w", collection, key, err)
	}
	return data, nil
}

// Update replaces an existing document and fails with ErrNotFound if there is
// none. The replacement is written to a temp file and renamed over the old
// one, so readers see either the old or the new content, never a torn file.
func (s *Store) Update(collection, key string, document []byte) error {
	target := s.docPath(collection, key)
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("store: update %s/%s: %w", collection, key, ErrNotFound)
		}
		return fmt.Errorf("store: update %s/%s: %w", collection, key, err)
	}

	tmp, err := s.writeTemp(collection, document)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: update %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) Delete(collection, key string) error {
	if err := os.Remove(s.docPath(collection, key)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("store: delete %s/%s: %w", collection, key, ErrNotFound)
		}
		return fmt.Errorf("store: delete %s/%s: %w", collection, key, err)
	}
	return nil
}

// List returns the keys of every document in the collection.
func (s *Store) List(collection string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, collection))
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", collection, err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), docExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), docExt))
	}
	return keys, nil
}

// CreateOrUpdate tries an update and falls back to create for a missing key.
// The two steps are not atomic against a concurrent delete; within this
// system each key has a single writer, so that window is accepted.
func (s *Store) CreateOrUpdate(collection, key string, document []byte) error {
	err := s.Update(collection, key, document)
	if errors.Is(err, ErrNotFound) {
		return s.Create(collection, key, document)
	}
	return err
}

// Append adds a line to a document, creating it when absent. Used for the
// log collection only; appended documents have no atomicity guarantee.
func (s *Store) Append(collection, key string, line []byte) error {
	f, err := os.OpenFile(s.docPath(collection, key), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: append %s/%s: %w", collection, key, err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("store: append %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) writeTemp(collection string, document []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Join(s.baseDir, collection), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("store: temp file: %w", err)
	}
	if _, err := f.Write(document); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("store: temp write: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("store: temp sync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("store: temp close: %w", err)
	}
	return f.Name(), nil
}
