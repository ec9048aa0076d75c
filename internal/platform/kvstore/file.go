package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 20 * time.Millisecond

// File keeps every key in one JSON object on disk. A sibling ".lock" file
// serialises writers across processes; mu does the same inside one process.
type File struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("kvstore: empty file path")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("kvstore: create dir: %w", err)
		}
	}
	return &File{path: path, lock: flock.New(path + ".lock")}, nil
}

func (f *File) Get(ctx context.Context, key string) (string, error) {
	var (
		value string
		found bool
	)
	err := f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}
		value, found = data[key]
		return nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	return f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}
		data[key] = value
		return f.save(data)
	})
}

func (f *File) Remove(ctx context.Context, key string) error {
	return f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return f.save(data)
	})
}

func (f *File) withLock(ctx context.Context, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("kvstore: lock %s: %w", f.path, err)
	}
	if !locked {
		return fmt.Errorf("kvstore: lock %s: not acquired", f.path)
	}
	defer func() { _ = f.lock.Unlock() }()

	return fn()
}

func (f *File) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: read %s: %w", f.path, err)
	}
	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("kvstore: decode %s: %w", f.path, err)
	}
	return data, nil
}

func (f *File) save(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path)
}
