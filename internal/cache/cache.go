// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cobaltcore-dev/vcd-inventory/internal/db"
	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery"
)

// A cache read, write or flush failed. Always surfaced, never ignored.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s failed: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// Store for discovery results, keyed by configuration identity.
type Store interface {
	// Create the backing tables if needed.
	Init() error
	// Fetch the asset list stored under the key. The second return is
	// false on a cache miss.
	Get(key string) ([]discovery.Asset, bool, error)
	// Store the asset list under the key, replacing a previous entry.
	Put(key string, assets []discovery.Asset) error
	// Drop all cached entries.
	Clear() error
}

// One cached discovery result.
type cacheEntry struct {
	// Stable hash of the configuration file path.
	Key string `db:"cache_key,primarykey"`
	// Time the entry was written.
	Time time.Time `db:"time"`
	// The asset list, JSON-encoded. No size hint: inventories can get
	// arbitrarily large, so the column must map to an unbounded text type.
	Payload string `db:"payload"`
}

// Table in which cached results are stored.
func (cacheEntry) TableName() string { return "inventory_cache" }

// DB-backed result cache.
type store struct {
	// Database holding the cache table.
	db db.DB
	// Monitor to track cache lookups.
	mon discovery.Monitor
}

// Create a new result cache on the given database.
func NewStore(database db.DB, mon discovery.Monitor) Store {
	return &store{db: database, mon: mon}
}

// Derive the cache key from the configuration file path. The absolute path
// is hashed so relative invocations of the same file share one entry.
func Key(configPath string) string {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		abs = configPath
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])
}

func (s *store) Init() error {
	table := s.db.AddTable(cacheEntry{})
	if err := s.db.CreateTable(table); err != nil {
		return &CacheError{Op: "init", Err: err}
	}
	return nil
}

func (s *store) Get(key string) ([]discovery.Asset, bool, error) {
	obj, err := s.db.Get(cacheEntry{}, key)
	if err != nil {
		return nil, false, &CacheError{Op: "read", Err: err}
	}
	if obj == nil {
		if s.mon.CacheCounter != nil {
			s.mon.CacheCounter.WithLabelValues("miss").Inc()
		}
		slog.Debug("cache miss", "key", key)
		return nil, false, nil
	}
	entry := obj.(*cacheEntry)
	var assets []discovery.Asset
	if err := json.Unmarshal([]byte(entry.Payload), &assets); err != nil {
		return nil, false, &CacheError{Op: "read", Err: err}
	}
	if s.mon.CacheCounter != nil {
		s.mon.CacheCounter.WithLabelValues("hit").Inc()
	}
	slog.Info("serving discovery results from cache", "key", key, "count", len(assets), "written", entry.Time)
	return assets, true, nil
}

func (s *store) Put(key string, assets []discovery.Asset) error {
	payload, err := json.Marshal(assets)
	if err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	entry := &cacheEntry{Key: key, Time: time.Now().UTC(), Payload: string(payload)}
	// Delete-then-insert by primary key keeps this portable across dialects.
	obj, err := s.db.Get(cacheEntry{}, key)
	if err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	if obj != nil {
		if _, err := s.db.Delete(obj); err != nil {
			return &CacheError{Op: "write", Err: err}
		}
	}
	if err := s.db.Insert(entry); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	slog.Debug("cached discovery results", "key", key, "count", len(assets))
	return nil
}

func (s *store) Clear() error {
	// Replacing the table contents with nothing empties it transactionally.
	if err := db.ReplaceAll[cacheEntry](s.db); err != nil {
		return &CacheError{Op: "flush", Err: err}
	}
	slog.Info("flushed result cache")
	return nil
}
