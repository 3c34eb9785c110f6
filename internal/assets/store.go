// Package assets keeps a local collection of board photos, each tagged with
// the quad that frames the board.
//
// Photos are hard-linked into the store directory so the store survives the
// original being moved. An index file, data.json, lists the entries in the
// order they were added; entries are addressed by that position.
package assets

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/imaging"
)

// IndexFile is the name of the index inside the store directory.
const IndexFile = "data.json"

// Entry is one stored photo. Name is the file name inside the store.
type Entry struct {
	Name string       `json:"name"`
	Quad imaging.Quad `json:"quad"`
}

type index struct {
	Entries []Entry `json:"entries"`
}

// Store is an asset directory and its index. Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	dir     string
	entries []Entry
	log     logrus.FieldLogger
}

// Open creates dir if needed and loads its index.
func Open(dir string, log logrus.FieldLogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.IOFailure("failed to create asset directory "+dir, err)
	}
	s := &Store{dir: dir, log: log}

	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, apperrors.IOFailure("failed to read asset index", err)
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, apperrors.IOFailure("failed to parse asset index", err)
	}
	s.entries = idx.Entries
	log.WithFields(logrus.Fields{"dir": dir, "entries": len(s.entries)}).Debug("asset store opened")
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Add links the photo at photoPath into the store and records quad for it.
func (s *Store) Add(photoPath string, quad imaging.Quad) (Entry, error) {
	if err := quad.Validate(); err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(photoPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, apperrors.NotFound("photo %s does not exist", photoPath)
		}
		return Entry{}, apperrors.IOFailure("failed to stat "+photoPath, err)
	}
	if info.IsDir() {
		return Entry{}, apperrors.InvalidArgument("%s is a directory", photoPath)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := filepath.Base(photoPath)
	for _, e := range s.entries {
		if e.Name == name {
			return Entry{}, apperrors.InvalidArgument("an asset named %s already exists", name)
		}
	}
	dst := filepath.Join(s.dir, name)
	if _, err := os.Lstat(dst); err == nil {
		return Entry{}, apperrors.InvalidArgument("%s already exists in the asset directory", name)
	}

	if err := linkOrCopy(photoPath, dst); err != nil {
		return Entry{}, err
	}

	entry := Entry{Name: name, Quad: quad}
	s.entries = append(s.entries, entry)
	if err := s.persist(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		_ = os.Remove(dst)
		return Entry{}, err
	}

	s.log.WithFields(logrus.Fields{"name": name, "quad": quad.String()}).Info("asset added")
	return entry, nil
}

// Delete removes entry i and its photo.
func (s *Store) Delete(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.entries) {
		return apperrors.NotFound("no asset %d (have %d)", i, len(s.entries))
	}
	entry := s.entries[i]
	path := filepath.Join(s.dir, entry.Name)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.IOFailure("failed to remove "+path, err)
	}

	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	if err := s.persist(); err != nil {
		return err
	}
	s.log.WithField("name", entry.Name).Info("asset deleted")
	return nil
}

// Get returns the path of photo i and its quad.
func (s *Store) Get(i int) (string, imaging.Quad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.entries) {
		return "", imaging.Quad{}, apperrors.NotFound("no asset %d (have %d)", i, len(s.entries))
	}
	e := s.entries[i]
	return filepath.Join(s.dir, e.Name), e.Quad, nil
}

// List returns a copy of all entries.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Len reports the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// persist writes the index through a temporary file so a crash never leaves
// a truncated index behind. Callers hold s.mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(index{Entries: s.entries}, "", "  ")
	if err != nil {
		return apperrors.IOFailure("failed to encode asset index", err)
	}

	tmp, err := os.CreateTemp(s.dir, IndexFile+".*.tmp")
	if err != nil {
		return apperrors.IOFailure("failed to create temporary index", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.IOFailure("failed to write asset index", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.IOFailure("failed to write asset index", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, IndexFile)); err != nil {
		return apperrors.IOFailure("failed to replace asset index", err)
	}
	return nil
}

// linkOrCopy hard-links src to dst, copying instead when the two are on
// different filesystems or linking is not supported.
func linkOrCopy(src, dst string) error {
	if err := os.Link(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return apperrors.IOFailure("failed to open "+src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return apperrors.IOFailure("failed to create "+dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return apperrors.IOFailure("failed to copy "+src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return apperrors.IOFailure("failed to copy "+src, err)
	}
	return nil
}
