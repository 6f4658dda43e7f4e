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

package charger

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testCharger(t *testing.T, initial string) (*Charger, *[]time.Duration) {
	t.Helper()
	attr := filepath.Join(t.TempDir(), "charge_control_enabled")
	if err := os.WriteFile(attr, []byte(initial), 0644); err != nil {
		t.Fatal(err)
	}
	c := New(attr, 1500*time.Millisecond)
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func TestReconcileEndsEnabled(t *testing.T) {
	for _, test := range []struct {
		desc    string
		initial string
	}{
		{desc: "starts enabled", initial: "1\n"},
		{desc: "starts disabled after interrupted run", initial: "0\n"},
		{desc: "starts in a state the attribute only reports", initial: "4\n"},
	} {
		t.Run(test.desc, func(t *testing.T) {
			c, slept := testCharger(t, test.initial)
			if err := c.Reconcile(); err != nil {
				t.Fatalf("Reconcile(): %v", err)
			}
			if got, err := c.State(); err != nil || got != StateEnabled {
				t.Fatalf("State() = %v, %v; want Enabled, nil", got, err)
			}
			if len(*slept) != 1 || (*slept)[0] != c.Settle {
				t.Fatalf("settle sleeps = %v, want one of %v", *slept, c.Settle)
			}
		})
	}
}

// Running the reconcile twice in a row must end Enabled both times.
func TestReconcileIdempotent(t *testing.T) {
	c, _ := testCharger(t, "1\n")
	for i := 0; i < 2; i++ {
		if err := c.Reconcile(); err != nil {
			t.Fatalf("Reconcile() run %d: %v", i+1, err)
		}
		if got, _ := c.State(); got != StateEnabled {
			t.Fatalf("state after run %d = %v, want Enabled", i+1, got)
		}
	}
}

func TestReconcileMissingAttribute(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "nope", "charge_control_enabled"), time.Second)
	c.sleep = func(time.Duration) {}
	if err := c.Reconcile(); err == nil {
		t.Fatal("Reconcile() succeeded against a missing attribute")
	}
}

func TestState(t *testing.T) {
	for _, test := range []struct {
		desc    string
		content string
		want    State
	}{
		{desc: "enabled", content: "1\n", want: StateEnabled},
		{desc: "disabled", content: "0\n", want: StateDisabled},
		{desc: "driver-specific value", content: "auto\n", want: StateUnknown},
	} {
		t.Run(test.desc, func(t *testing.T) {
			c, _ := testCharger(t, test.content)
			got, err := c.State()
			if err != nil || got != test.want {
				t.Fatalf("State() = %v, %v; want %v, nil", got, err, test.want)
			}
		})
	}
}
