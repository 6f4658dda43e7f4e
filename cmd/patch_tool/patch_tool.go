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

// patch_tool lowers a battery charge voltage ceiling inside a device tree
// blob, safety-checked against the live battery voltage.
//
// Usage:
//   go run ./cmd/patch_tool/ --logtostderr \
//     --in /boot/device.dtb --out /tmp/device-capped.dtb \
//     --property voltage-max-design-microvolt --target_microvolts 3800000
//
// The input blob is never modified; the patched copy is written to --out
// and installing it into the boot location is left to the operator. When
// the property occurs under more than one node, pass --node_path to pick
// one. Exit codes distinguish format, lookup, encoding and safety
// failures.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/voltcap/voltcap/cmd/patch_tool/impl"
	"github.com/voltcap/voltcap/internal/exitcode"
)

var (
	in          = flag.String("in", "", "File path of the device tree blob to patch")
	out         = flag.String("out", "", "File path to write the patched blob to")
	property    = flag.String("property", "voltage-max-design-microvolt", "Name of the voltage property to rewrite")
	nodePath    = flag.String("node_path", "", "Absolute node path holding the property, e.g. /battery; required when the name is ambiguous")
	target      = flag.Uint64("target_microvolts", 0, "New charge voltage ceiling in microvolts")
	configFile  = flag.String("config", "", "Optional YAML platform config with limits and sysfs paths")
	voltagePath = flag.String("voltage_path", "", "Override the sysfs attribute the live battery voltage is read from")
	backupDB    = flag.String("backup_db", "", "Optional sqlite3 DB to record the original blob in, for revert_tool")
	dryRun      = flag.Bool("dry_run", false, "Plan and safety-check only, write nothing")
)

func main() {
	flag.Parse()

	if err := impl.Main(impl.PatchOpts{
		Input:            *in,
		Output:           *out,
		Property:         *property,
		NodePath:         *nodePath,
		TargetMicrovolts: *target,
		ConfigFile:       *configFile,
		VoltagePath:      *voltagePath,
		BackupDB:         *backupDB,
		DryRun:           *dryRun,
	}); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(exitcode.For(err))
	}
}
