// Package container supplies named byte entries from a map package,
// backed by either a zip archive or a plain directory.
package container

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zip"
)

// ErrNoEntry is returned by Store.Read for a missing entry name.
var ErrNoEntry = fmt.Errorf("container: no such entry")

// Store is a read-only view of a map container's named entries.
type Store interface {
	Path() string
	Names() []string
	Read(name string) ([]byte, error)
}

// Open opens the container at path. A directory is served file-by-file;
// anything else is treated as a zip archive and read fully into memory so
// the archive can be rewritten in place.
func Open(path string) (Store, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return &dirStore{path: path}, nil
	}
	return openZip(path)
}

// Write stores entries at path, replacing whatever was there. The backend
// matches an existing directory at path; otherwise a zip archive is
// written via a temp file and rename.
func Write(path string, entries map[string][]byte) error {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return WriteDir(path, entries)
	}
	return WriteZip(path, entries)
}

type zipStore struct {
	path    string
	entries map[string][]byte
}

func openZip(path string) (*zipStore, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("container: open %s: %w", path, err)
	}
	defer r.Close()

	entries := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("container: entry %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("container: entry %s: %w", f.Name, err)
		}
		entries[f.Name] = b
	}
	return &zipStore{path: path, entries: entries}, nil
}

func (s *zipStore) Path() string { return s.path }

func (s *zipStore) Names() []string {
	names := make([]string, 0, len(s.entries))
	for n := range s.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *zipStore) Read(name string) ([]byte, error) {
	b, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEntry, name)
	}
	return append([]byte(nil), b...), nil
}

type dirStore struct {
	path string
}

func (s *dirStore) Path() string { return s.path }

func (s *dirStore) Names() []string {
	des, err := os.ReadDir(s.path)
	if err != nil {
		return nil
	}
	var names []string
	for _, de := range des {
		if de.Type().IsRegular() {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)
	return names
}

func (s *dirStore) Read(name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(s.path, name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoEntry, name)
	}
	return b, err
}

// WriteZip writes entries as a zip archive, entry names sorted for a
// deterministic layout.
func WriteZip(path string, entries map[string][]byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: n, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("container: write %s: %w", n, err)
		}
		if _, err := w.Write(entries[n]); err != nil {
			return fmt.Errorf("container: write %s: %w", n, err)
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// WriteDir writes entries as individual files under path. Stale files
// from a previous save are removed so the directory mirrors the entry set.
func WriteDir(path string, entries map[string][]byte) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	if des, err := os.ReadDir(path); err == nil {
		for _, de := range des {
			if !de.Type().IsRegular() {
				continue
			}
			if _, keep := entries[de.Name()]; !keep {
				_ = os.Remove(filepath.Join(path, de.Name()))
			}
		}
	}
	for name, b := range entries {
		if err := os.WriteFile(filepath.Join(path, name), b, 0o644); err != nil {
			return err
		}
	}
	return nil
}
