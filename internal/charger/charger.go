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

// Package charger drives the charging hardware's enable attribute.
//
// The charger is modelled as a two-state machine, Enabled and Disabled,
// controlled through a single writable sysfs attribute. After a voltage
// ceiling change and reboot the hardware does not reassess its charge
// target and stays idle below the new ceiling; toggling the attribute off
// and back on forces a reassessment. Reconcile performs that toggle once
// and always finishes in Enabled.
package charger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/glog"
)

// State of the charging hardware as far as the enable attribute tells.
type State int

const (
	StateUnknown State = iota
	StateDisabled
	StateEnabled
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "Disabled"
	case StateEnabled:
		return "Enabled"
	default:
		return "Unknown"
	}
}

// Charger toggles a single charging-enable attribute.
type Charger struct {
	// AttrPath is the writable enable attribute.
	AttrPath string

	// OffValue and OnValue are the strings the attribute expects.
	OffValue, OnValue string

	// Settle is how long the hardware is left disabled before re-enabling.
	Settle time.Duration

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// New returns a charger for the given attribute using the conventional
// "0"/"1" enable values.
func New(attrPath string, settle time.Duration) *Charger {
	return &Charger{
		AttrPath: attrPath,
		OffValue: "0",
		OnValue:  "1",
		Settle:   settle,
		sleep:    time.Sleep,
	}
}

// State reads the attribute back. Unrecognised contents map to Unknown
// rather than an error because the attribute may report richer states than
// it accepts.
func (c *Charger) State() (State, error) {
	raw, err := os.ReadFile(c.AttrPath)
	if err != nil {
		return StateUnknown, fmt.Errorf("failed to read charger attribute %q: %w", c.AttrPath, err)
	}
	switch strings.TrimSpace(string(raw)) {
	case c.OffValue:
		return StateDisabled, nil
	case c.OnValue:
		return StateEnabled, nil
	default:
		return StateUnknown, nil
	}
}

// Reconcile drives the charger Disabled, waits the settle delay, then
// drives it Enabled. It is unconditional and idempotent: whatever state the
// hardware starts in, a successful run finishes Enabled. Attribute writes
// are retried briefly since sysfs attributes can report transient EAGAIN
// while the supply driver is still probing after boot.
func (c *Charger) Reconcile() error {
	glog.Infof("Disabling charger via %q", c.AttrPath)
	if err := c.writeAttr(c.OffValue); err != nil {
		return fmt.Errorf("failed to disable charger: %w", err)
	}

	sleep := c.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(c.Settle)

	if err := c.writeAttr(c.OnValue); err != nil {
		return fmt.Errorf("failed to re-enable charger: %w", err)
	}
	glog.Infof("Charger re-enabled after %v settle", c.Settle)
	return nil
}

func (c *Charger) writeAttr(v string) error {
	op := func() error {
		if err := os.WriteFile(c.AttrPath, []byte(v), 0644); err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 5 * time.Second
	return backoff.Retry(op, bo)
}
