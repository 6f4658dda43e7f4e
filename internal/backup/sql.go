// Copyright 2026 The Voltcap Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package backup is a content-addressed store for original device tree
// blobs, so a patched blob can always be reverted.
package backup

import (
	"crypto/sha512"
	"database/sql"
	"fmt"
	"time"
)

// Store keeps blobs keyed by their SHA-512 in a SQL database, plus a
// reference table mapping the blob's source path to the latest key saved
// for it.
type Store struct {
	db *sql.DB
}

// NewStore creates a store backed by the given DB, initializing the tables
// if needed.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	return s, s.init()
}

func (s *Store) init() error {
	if _, err := s.db.Exec("CREATE TABLE IF NOT EXISTS blobs (key BLOB PRIMARY KEY, data BLOB)"); err != nil {
		return err
	}
	_, err := s.db.Exec("CREATE TABLE IF NOT EXISTS refs (path TEXT PRIMARY KEY, key BLOB, saved_at TEXT)")
	return err
}

// Save records the blob under its content hash and points the path
// reference at it. Saving identical content twice is a no-op for the blob
// table; the reference is always moved to the latest save.
func (s *Store) Save(path string, blob []byte) ([]byte, error) {
	keyBs := sha512.Sum512(blob)
	key := keyBs[:]
	if _, err := s.db.Exec("INSERT OR IGNORE INTO blobs (key, data) VALUES (?, ?)", key, blob); err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}
	savedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec("INSERT OR REPLACE INTO refs (path, key, saved_at) VALUES (?, ?, ?)", path, key, savedAt); err != nil {
		return nil, fmt.Errorf("failed to store reference for %q: %w", path, err)
	}
	return key, nil
}

// Retrieve gets a blob previously stored under the given content key.
func (s *Store) Retrieve(key []byte) ([]byte, error) {
	var res []byte
	if err := s.db.QueryRow("SELECT data FROM blobs WHERE key=?", key).Scan(&res); err != nil {
		return nil, fmt.Errorf("no blob stored under key %x: %w", key, err)
	}
	return res, nil
}

// RetrieveByPath gets the blob most recently saved for the given source
// path.
func (s *Store) RetrieveByPath(path string) ([]byte, error) {
	var key []byte
	if err := s.db.QueryRow("SELECT key FROM refs WHERE path=?", path).Scan(&key); err != nil {
		return nil, fmt.Errorf("no backup recorded for %q: %w", path, err)
	}
	return s.Retrieve(key)
}
