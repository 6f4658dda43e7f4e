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

// Package impl is the implementation of the once-per-boot charger
// reconcile entry point.
package impl

import (
	"time"

	"github.com/golang/glog"
	"github.com/voltcap/voltcap/internal/charger"
	"github.com/voltcap/voltcap/internal/config"
)

// ReconcileOpts encapsulates reconcile tool parameters.
type ReconcileOpts struct {
	ConfigFile         string
	AttrPath           string
	SettleMillis       int
	StartupDelayMillis int
}

// Main toggles the charging-enable attribute off, waits the settle delay,
// and toggles it back on. It never inspects why charging is stalled; the
// external scheduler runs it unconditionally once per boot.
func Main(opts ReconcileOpts) error {
	platform := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if platform, err = config.Load(opts.ConfigFile); err != nil {
			return err
		}
	}
	attrPath := platform.Charger.AttributePath
	if opts.AttrPath != "" {
		attrPath = opts.AttrPath
	}
	settle := time.Duration(platform.Charger.SettleMillis) * time.Millisecond
	if opts.SettleMillis >= 0 {
		settle = time.Duration(opts.SettleMillis) * time.Millisecond
	}

	if opts.StartupDelayMillis > 0 {
		glog.Infof("Waiting %dms for the supply driver to finish probing", opts.StartupDelayMillis)
		time.Sleep(time.Duration(opts.StartupDelayMillis) * time.Millisecond)
	}

	c := charger.New(attrPath, settle)
	c.OffValue = platform.Charger.OffValue
	c.OnValue = platform.Charger.OnValue

	if state, err := c.State(); err == nil {
		glog.Infof("Charger state before reconcile: %v", state)
	} else {
		glog.Warningf("Could not read charger state: %v", err)
	}

	if err := c.Reconcile(); err != nil {
		// Best effort, nothing to roll back: rerunning is always safe.
		return err
	}

	if state, err := c.State(); err == nil && state != charger.StateEnabled {
		glog.Warningf("Charger attribute reads back as %v after reconcile", state)
	}
	return nil
}
