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

// Package impl is the implementation of the tool that patches a battery
// charge voltage ceiling into a device tree blob.
package impl

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/golang/glog"
	_ "github.com/mattn/go-sqlite3" // Load drivers for sqlite3
	"github.com/voltcap/voltcap/api"
	"github.com/voltcap/voltcap/internal/backup"
	"github.com/voltcap/voltcap/internal/blobio"
	"github.com/voltcap/voltcap/internal/config"
	"github.com/voltcap/voltcap/internal/fdt"
	"github.com/voltcap/voltcap/internal/gate"
	"github.com/voltcap/voltcap/internal/lockfile"
	"github.com/voltcap/voltcap/internal/patch"
	"github.com/voltcap/voltcap/internal/sensor"
)

// PatchOpts encapsulates patch tool parameters.
type PatchOpts struct {
	Input            string
	Output           string
	Property         string
	NodePath         string
	TargetMicrovolts uint64
	ConfigFile       string
	VoltagePath      string
	BackupDB         string
	DryRun           bool
}

// Main runs the whole pipeline: load, locate, safety-check against the
// live battery voltage, patch, encode, write. All failures abort before
// any output is produced.
func Main(opts PatchOpts) error {
	if err := validate(opts); err != nil {
		return err
	}
	platform, err := loadPlatform(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.VoltagePath != "" {
		platform.Sensor.VoltagePath = opts.VoltagePath
	}
	target := api.VoltageValue(opts.TargetMicrovolts)

	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("failed to read input blob: %w", err)
	}
	tree, err := fdt.ReadFDT(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode %q: %w", opts.Input, err)
	}

	plan, err := patch.Plan(tree, opts.NodePath, opts.Property, target)
	if err != nil {
		return err
	}
	glog.Infof("Planned patch: %v", plan)

	current, err := sensor.Sensor{Path: platform.Sensor.VoltagePath}.Read()
	if err != nil {
		return fmt.Errorf("cannot establish the live battery voltage, refusing to patch unchecked: %w", err)
	}
	glog.Infof("Battery is at %v", current)
	if err := gate.Check(current, target, platform.Limits.API()); err != nil {
		return err
	}

	if opts.DryRun {
		glog.Infof("Dry run, not writing %q", opts.Output)
		return nil
	}

	lock, err := lockfile.Acquire(opts.Output)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			glog.Warningf("Failed to release lock on %q: %v", opts.Output, err)
		}
	}()

	if opts.BackupDB != "" {
		if err := saveBackup(opts.BackupDB, opts.Output, raw); err != nil {
			return err
		}
	}

	if err := patch.Apply(tree, plan); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := tree.Write(&buf); err != nil {
		return fmt.Errorf("failed to encode patched tree: %w", err)
	}
	if err := blobio.WriteAtomic(opts.Output, buf.Bytes()); err != nil {
		return err
	}
	glog.Infof("Wrote patched device tree to %q (%d bytes)", opts.Output, buf.Len())
	glog.Info("Install the blob with your boot tooling, then schedule the reconcile tool to run once per boot")
	return nil
}

func validate(opts PatchOpts) error {
	if opts.Input == "" {
		return errors.New("must specify input blob path")
	}
	if opts.Output == "" && !opts.DryRun {
		return errors.New("must specify output blob path")
	}
	if opts.Output == opts.Input {
		return errors.New("refusing to patch the input blob in place; choose a different output path")
	}
	if opts.Property == "" {
		return errors.New("must specify the property to patch")
	}
	if opts.TargetMicrovolts == 0 || opts.TargetMicrovolts > math.MaxUint32 {
		return fmt.Errorf("target %d microvolts does not fit a u32 cell", opts.TargetMicrovolts)
	}
	return nil
}

func loadPlatform(path string) (config.Platform, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// saveBackup records the original blob so the patch can be reverted later.
func saveBackup(dbPath, outPath string, raw []byte) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open backup DB %q: %w", dbPath, err)
	}
	defer db.Close()
	store, err := backup.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to initialise backup DB %q: %w", dbPath, err)
	}
	key, err := store.Save(outPath, raw)
	if err != nil {
		return err
	}
	glog.Infof("Saved original blob under key %x", key[:8])
	return nil
}
