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

// Package config describes the platform the tools run against: voltage
// limits, where the battery voltage is read, and which attribute drives the
// charger.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/voltcap/voltcap/api"
	"github.com/voltcap/voltcap/internal/sensor"
)

// Platform is the root of the YAML config file.
type Platform struct {
	Limits  Limits  `yaml:"Limits"`
	Sensor  Sensor  `yaml:"Sensor"`
	Charger Charger `yaml:"Charger"`
}

// Limits are the platform's voltage bounds in microvolts.
type Limits struct {
	MinSafeMicrovolts uint32 `yaml:"MinSafeMicrovolts"`
	AbsMaxMicrovolts  uint32 `yaml:"AbsMaxMicrovolts"`
}

// API converts to the shared limits type.
func (l Limits) API() api.Limits {
	return api.Limits{
		MinimumSafe:     api.VoltageValue(l.MinSafeMicrovolts),
		AbsoluteMaximum: api.VoltageValue(l.AbsMaxMicrovolts),
	}
}

// Sensor locates the live battery voltage reading.
type Sensor struct {
	// VoltagePath is the sysfs attribute holding microvolts.
	VoltagePath string `yaml:"VoltagePath"`
}

// Charger locates and parameterises the charging-enable attribute.
type Charger struct {
	AttributePath string `yaml:"AttributePath"`
	OffValue      string `yaml:"OffValue"`
	OnValue       string `yaml:"OnValue"`
	SettleMillis  int    `yaml:"SettleMillis"`
}

// Default returns the platform config used when no file is given: limits
// matching common lithium cell ratings and the stock sysfs locations.
func Default() Platform {
	return Platform{
		Limits: Limits{
			MinSafeMicrovolts: 3400000,
			AbsMaxMicrovolts:  4400000,
		},
		Sensor: Sensor{
			VoltagePath: sensor.ForSupply(sensor.DefaultSysfsRoot, "battery").Path,
		},
		Charger: Charger{
			AttributePath: sensor.DefaultSysfsRoot + "/battery/charge_control_enabled",
			OffValue:      "0",
			OnValue:       "1",
			SettleMillis:  2000,
		},
	}
}

// Load reads and validates a platform config file.
func Load(path string) (Platform, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Platform{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	p := Default()
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Platform{}, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Platform{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return p, nil
}

// Validate checks the config is self-consistent.
func (p Platform) Validate() error {
	if p.Limits.MinSafeMicrovolts == 0 {
		return errors.New("missing field: Limits.MinSafeMicrovolts")
	}
	if p.Limits.AbsMaxMicrovolts == 0 {
		return errors.New("missing field: Limits.AbsMaxMicrovolts")
	}
	if p.Limits.MinSafeMicrovolts > p.Limits.AbsMaxMicrovolts {
		return fmt.Errorf("Limits floor %d exceeds ceiling %d", p.Limits.MinSafeMicrovolts, p.Limits.AbsMaxMicrovolts)
	}
	if p.Sensor.VoltagePath == "" {
		return errors.New("missing field: Sensor.VoltagePath")
	}
	if p.Charger.AttributePath == "" {
		return errors.New("missing field: Charger.AttributePath")
	}
	if p.Charger.OffValue == p.Charger.OnValue {
		return errors.New("Charger.OffValue and Charger.OnValue must differ")
	}
	if p.Charger.SettleMillis < 0 {
		return errors.New("Charger.SettleMillis must not be negative")
	}
	return nil
}
