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

// Package sensor reads the live battery voltage from the kernel's
// power-supply sysfs class.
package sensor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/voltcap/voltcap/api"
)

// DefaultSysfsRoot is where the kernel exposes power supplies.
const DefaultSysfsRoot = "/sys/class/power_supply"

// Sensor reads a single voltage attribute file holding microvolts.
type Sensor struct {
	Path string
}

// ForSupply returns a sensor for the voltage_now attribute of the named
// supply under the given sysfs root.
func ForSupply(root, supply string) Sensor {
	return Sensor{Path: filepath.Join(root, supply, "voltage_now")}
}

// Read returns the current battery voltage. A missing or unreadable
// attribute is an error: the caller must not patch unchecked.
func (s Sensor) Read() (api.VoltageValue, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read voltage from %q: %w", s.Path, err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("voltage attribute %q holds %q, not a microvolt count: %w", s.Path, strings.TrimSpace(string(raw)), err)
	}
	return api.VoltageValue(v), nil
}
