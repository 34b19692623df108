// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
)

// Entry describes a cached artifact on disk. Key is the clear-text key;
// EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
	Size       int64
	ModTime    time.Time
}

// Store is a directory of files, one per key. The base directory is an
// explicit configuration value, not ambient process state. No coordination
// between concurrent writers is provided.
type Store struct {
	Base string
}

// NewStore returns a Store rooted at base. Nothing is created until the
// first Write.
func NewStore(base string) *Store {
	return &Store{Base: base}
}

// DefaultDir resolves the base cache directory when the caller does not
// provide one.
// Precedence:
//  1. TFTEST_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/tftest
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func DefaultDir() (string, bool) {
	if c, ok := os.LookupEnv("TFTEST_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "tftest"), true
	}
	return "", false
}

// EntryPath returns the absolute path where the entry for clearKey would
// live, and whether a file currently exists there.
func (s *Store) EntryPath(clearKey string) (string, bool) {
	p := filepath.Join(s.Base, EncodeKey(clearKey))
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Read attempts to read the entry for clearKey. A missing entry returns
// (nil, false, nil); any other I/O failure is returned as an error rather
// than being folded into a miss.
func (s *Store) Read(clearKey string) (*Entry, bool, error) {
	p := filepath.Join(s.Base, EncodeKey(clearKey))
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry %s: %w", p, err)
	}
	return &Entry{
		Key:        clearKey,
		EncodedKey: EncodeKey(clearKey),
		Path:       p,
		Data:       b,
	}, true, nil
}

// Write stores data for clearKey, creating the base directory as needed.
func (s *Store) Write(clearKey string, data []byte) error {
	if err := os.MkdirAll(s.Base, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(s.Base, EncodeKey(clearKey))
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("wrote cache entry %s", p)
	return nil
}

// Entries lists the current contents of the store in directory order. A
// missing base directory yields an empty list.
func (s *Store) Entries() ([]Entry, error) {
	des, err := os.ReadDir(s.Base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list cache directory: %w", err)
	}
	var entries []Entry //nolint:prealloc
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			EncodedKey: de.Name(),
			Path:       filepath.Join(s.Base, de.Name()),
			Size:       info.Size(),
			ModTime:    info.ModTime(),
		})
	}
	return entries, nil
}

// Purge removes entries older than the provided number of hours.
// If hours <= 0, it is a no-op.
func (s *Store) Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache purge disabled")
		return nil
	}
	maxAge := time.Duration(hours) * time.Hour
	entries, err := s.Entries()
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	for _, e := range entries {
		if time.Since(e.ModTime) <= maxAge {
			continue
		}
		if err := os.Remove(e.Path); err == nil {
			log.Debugf("removed cache file %s", e.Path)
		} else {
			log.WithError(err).Warnf("failed to remove cache file %s", e.Path)
		}
	}
	return nil
}

// EncodeKey hashes k with MD5 and returns the hex string used as the entry
// filename.
func EncodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
