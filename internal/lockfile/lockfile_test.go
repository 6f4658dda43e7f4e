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

package lockfile

import (
	"path/filepath"
	"testing"
)

func TestAcquireExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.dtb")

	l1, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire(): %v", err)
	}
	if _, err := Acquire(path); err == nil {
		t.Fatal("second Acquire() succeeded while the lock was held")
	}
	if err := l1.Release(); err != nil {
		t.Fatalf("Release(): %v", err)
	}

	// After release the lock can be taken again.
	l2, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire() after release: %v", err)
	}
	if err := l2.Release(); err != nil {
		t.Fatalf("Release(): %v", err)
	}
}

func TestAcquireMissingDir(t *testing.T) {
	if _, err := Acquire(filepath.Join(t.TempDir(), "nope", "device.dtb")); err == nil {
		t.Fatal("Acquire() succeeded in a missing directory")
	}
}
