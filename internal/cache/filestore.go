package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const filePrefix = "oda_"

// FileStore is the persisted tier: one JSON file per key under a cache
// directory, all sharing the oda_ namespace prefix.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
	return filepath.Join(s.dir, filePrefix+clean+".json")
}

func (s *FileStore) Get(key string) (Entry, bool) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, false
	}
	return e, true
}

// Put writes the entry. If the write fails (disk full, permissions),
// every other namespaced file is cleared and the write retried once;
// a second failure is dropped silently — the memory tier still holds
// the value for this process.
func (s *FileStore) Put(key string, e Entry) {
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	p := s.path(key)
	if err := os.WriteFile(p, b, 0o644); err == nil {
		return
	}
	s.clearExcept(p)
	_ = os.WriteFile(p, b, 0o644)
}

func (s *FileStore) Delete(key string) {
	_ = os.Remove(s.path(key))
}

func (s *FileStore) clearExcept(keep string) {
	matches, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*.json"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if m != keep {
			_ = os.Remove(m)
		}
	}
}
