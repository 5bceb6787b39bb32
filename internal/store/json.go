package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/ykvlv/forecast-bot/internal/domain"
)

// JSONStore keeps all users in a single human-readable JSON object:
// {"<user id>": {"city": ..., "provider": ..., "notify_time": ..., "magnetic_region": ...}}.
// The file is read in full on every Get and rewritten in full on every Set.
type JSONStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex // serialises read-modify-write of the whole file
}

// OpenJSON opens the file at path, creating it (and its directory) with "{}" if missing.
func OpenJSON(path string, log *zap.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &JSONStore{path: path, log: log.Named("store")}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.save(map[string]domain.Preferences{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) Get(_ context.Context, userID int64) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return domain.Preferences{}, err
	}
	return users[strconv.FormatInt(userID, 10)], nil
}

func (s *JSONStore) Set(_ context.Context, userID int64, p domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	users[strconv.FormatInt(userID, 10)] = p
	return s.save(users)
}

func (s *JSONStore) List(_ context.Context) (map[int64]domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	res := make(map[int64]domain.Preferences, len(users))
	for k, p := range users {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			s.log.Warn("skipping non-numeric user key", zap.String("key", k))
			continue
		}
		res[id] = p
	}
	return res, nil
}

func (s *JSONStore) Close() error { return nil }

// load reads the file. A missing or corrupt file yields an empty mapping;
// the next save recreates it.
func (s *JSONStore) load() (map[string]domain.Preferences, error) {
	users := make(map[string]domain.Preferences)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return users, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		s.log.Warn("preferences file is corrupt, starting empty", zap.String("path", s.path), zap.Error(err))
		return make(map[string]domain.Preferences), nil
	}
	if users == nil {
		users = make(map[string]domain.Preferences)
	}
	return users, nil
}

// save writes users pretty-printed to a temp file and renames it over the original.
func (s *JSONStore) save(users map[string]domain.Preferences) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(users); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
