package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// FileStore keeps one file per entry under dir/<namespace>/. Writes go to a
// temporary file that is renamed into place, so readers never see a partial
// entry.
type FileStore struct {
	dir      string
	compress bool
	enc      *zstd.Encoder
	dec      *zstd.Decoder
}

// NewFileStore creates dir if needed. With compress set, entries are stored
// zstd-compressed.
func NewFileStore(dir string, compress bool) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &IOError{Op: "mkdir", Key: dir, Err: err}
	}

	s := &FileStore{dir: dir, compress: compress}
	if compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		s.enc, s.dec = enc, dec
	}
	return s, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

var namespaceReplacer = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

func (s *FileStore) path(namespace, key string) string {
	ext := ".json"
	if s.compress {
		ext = ".json.zst"
	}
	return filepath.Join(s.dir, namespaceReplacer.Replace(namespace), key+ext)
}

// Get implements Store.
func (s *FileStore) Get(namespace, key string) (Entry, error) {
	data, err := os.ReadFile(s.path(namespace, key))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, &IOError{Op: "read", Key: key, Err: err}
	}

	if s.compress {
		if data, err = s.dec.DecodeAll(data, nil); err != nil {
			return Entry{}, &IOError{Op: "decode", Key: key, Err: err}
		}
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, &IOError{Op: "decode", Key: key, Err: err}
	}
	return e, nil
}

// Put implements Store.
func (s *FileStore) Put(namespace, key string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return &IOError{Op: "encode", Key: key, Err: err}
	}
	if s.compress {
		data = s.enc.EncodeAll(data, nil)
	}

	target := s.path(namespace, key)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "write", Key: key, Err: err}
	}

	tmp, err := os.CreateTemp(dir, key+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Key: key, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Key: key, Err: err}
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Clear implements Store. Only entry files are removed; namespace
// directories go once they are empty.
func (s *FileStore) Clear() error {
	namespaces, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &IOError{Op: "clear", Err: err}
	}
	for _, ns := range namespaces {
		if !ns.IsDir() {
			continue
		}
		nsDir := filepath.Join(s.dir, ns.Name())
		files, err := os.ReadDir(nsDir)
		if err != nil {
			return &IOError{Op: "clear", Key: ns.Name(), Err: err}
		}
		for _, f := range files {
			if !isEntryFile(f.Name()) {
				continue
			}
			if err := os.Remove(filepath.Join(nsDir, f.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return &IOError{Op: "clear", Key: f.Name(), Err: err}
			}
		}
		os.Remove(nsDir) // fails harmlessly when foreign files remain
	}
	return nil
}

func isEntryFile(name string) bool {
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.zst") || strings.HasSuffix(name, ".tmp")
}
