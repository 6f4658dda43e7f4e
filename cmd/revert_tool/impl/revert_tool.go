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

// Package impl is the implementation of the tool that restores an original
// device tree blob over a patched one.
package impl

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang/glog"
	_ "github.com/mattn/go-sqlite3" // Load drivers for sqlite3
	"github.com/voltcap/voltcap/internal/backup"
	"github.com/voltcap/voltcap/internal/blobio"
	"github.com/voltcap/voltcap/internal/fdt"
	"github.com/voltcap/voltcap/internal/lockfile"
)

// RevertOpts encapsulates revert tool parameters.
type RevertOpts struct {
	// Backup is a plain file holding the original blob.
	Backup string
	// BackupDB is a sqlite3 DB written by patch_tool; the blob recorded
	// for Target is restored.
	BackupDB string
	// Target is the path to restore over.
	Target string
}

// Main restores the original blob over the target path. The blob is
// decoded first so that garbage is never installed.
func Main(opts RevertOpts) error {
	if opts.Target == "" {
		return errors.New("must specify target path")
	}
	if (opts.Backup == "") == (opts.BackupDB == "") {
		return errors.New("must specify exactly one of backup file or backup DB")
	}

	blob, err := readBackup(opts)
	if err != nil {
		return err
	}
	if _, err := fdt.ReadFDT(bytes.NewReader(blob)); err != nil {
		return fmt.Errorf("backup does not decode as a device tree, refusing to restore it: %w", err)
	}

	lock, err := lockfile.Acquire(opts.Target)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			glog.Warningf("Failed to release lock on %q: %v", opts.Target, err)
		}
	}()

	if err := blobio.WriteAtomic(opts.Target, blob); err != nil {
		return err
	}
	glog.Infof("Restored original device tree to %q (%d bytes)", opts.Target, len(blob))
	glog.Info("Remove the charger reconcile job from your init system to complete the revert")
	return nil
}

func readBackup(opts RevertOpts) ([]byte, error) {
	if opts.Backup != "" {
		blob, err := os.ReadFile(opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("failed to read backup file: %w", err)
		}
		return blob, nil
	}
	db, err := sql.Open("sqlite3", opts.BackupDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup DB %q: %w", opts.BackupDB, err)
	}
	defer db.Close()
	store, err := backup.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup DB %q: %w", opts.BackupDB, err)
	}
	return store.RetrieveByPath(opts.Target)
}
