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

// revert_tool restores an original device tree blob saved before patching.
//
// Usage:
//   go run ./cmd/revert_tool/ --logtostderr --backup /boot/device.dtb.orig --target /boot/device.dtb
//
// or, with the backup DB written by patch_tool:
//   go run ./cmd/revert_tool/ --logtostderr --backup_db /var/lib/voltcap/backups.db --target /tmp/device-capped.dtb
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/voltcap/voltcap/cmd/revert_tool/impl"
	"github.com/voltcap/voltcap/internal/exitcode"
)

var (
	backupFile = flag.String("backup", "", "File path of the saved original blob")
	backupDB   = flag.String("backup_db", "", "sqlite3 DB written by patch_tool")
	target     = flag.String("target", "", "File path to restore the original blob over")
)

func main() {
	flag.Parse()

	if err := impl.Main(impl.RevertOpts{
		Backup:   *backupFile,
		BackupDB: *backupDB,
		Target:   *target,
	}); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(exitcode.For(err))
	}
}
