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

// reconcile_tool toggles the charging-enable attribute off and back on so
// the charging hardware reassesses its target after a voltage ceiling
// change. Schedule it from your init system to run once a fixed time after
// each boot:
//
//   [Service]
//   ExecStart=/usr/local/bin/reconcile_tool --logtostderr --startup_delay_ms 10000
//
// Rerunning is always safe; if a previous run was interrupted while the
// charger was disabled, the next run re-enables it.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/voltcap/voltcap/cmd/reconcile_tool/impl"
	"github.com/voltcap/voltcap/internal/exitcode"
)

var (
	configFile   = flag.String("config", "", "Optional YAML platform config with the charger attribute path")
	attrPath     = flag.String("attr", "", "Override the charging-enable sysfs attribute path")
	settleMillis = flag.Int("settle_ms", -1, "Milliseconds to leave the charger disabled before re-enabling; -1 uses the config value")
	startupDelay = flag.Int("startup_delay_ms", 0, "Milliseconds to wait before touching the attribute")
)

func main() {
	flag.Parse()

	if err := impl.Main(impl.ReconcileOpts{
		ConfigFile:         *configFile,
		AttrPath:           *attrPath,
		SettleMillis:       *settleMillis,
		StartupDelayMillis: *startupDelay,
	}); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(exitcode.For(err))
	}
}
