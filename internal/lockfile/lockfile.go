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

// Package lockfile serialises invocations that write the same blob path.
package lockfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock is a held advisory lock.
type Lock struct {
	f *os.File
}

// Acquire takes an exclusive non-blocking advisory lock on a sidecar of
// the given path. A second invocation racing on the same output fails
// immediately instead of waiting.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file for %q: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, fmt.Errorf("another invocation holds the lock on %q", path)
		}
		return nil, fmt.Errorf("failed to lock %q: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Release drops the lock. The sidecar file is left behind; removing it
// would race with a waiter that just opened it.
func (l *Lock) Release() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
