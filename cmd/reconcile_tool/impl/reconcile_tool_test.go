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

package impl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMainTogglesAttribute(t *testing.T) {
	attr := filepath.Join(t.TempDir(), "charge_control_enabled")
	if err := os.WriteFile(attr, []byte("1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := ReconcileOpts{AttrPath: attr, SettleMillis: 0}
	for i := 0; i < 2; i++ {
		if err := Main(opts); err != nil {
			t.Fatalf("Main() run %d: %v", i+1, err)
		}
		got, err := os.ReadFile(attr)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "1" {
			t.Fatalf("attribute after run %d = %q, want \"1\"", i+1, got)
		}
	}
}

func TestMainMissingAttribute(t *testing.T) {
	opts := ReconcileOpts{
		AttrPath:     filepath.Join(t.TempDir(), "nope", "charge_control_enabled"),
		SettleMillis: 0,
	}
	if err := Main(opts); err == nil {
		t.Fatal("Main() succeeded against a missing attribute")
	}
}

func TestMainUsesConfigValues(t *testing.T) {
	dir := t.TempDir()
	attr := filepath.Join(dir, "enable")
	if err := os.WriteFile(attr, []byte("on"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "platform.yaml")
	body := "Charger:\n  AttributePath: " + attr + "\n  OffValue: \"off\"\n  OnValue: \"on\"\n  SettleMillis: 0\n"
	if err := os.WriteFile(cfg, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Main(ReconcileOpts{ConfigFile: cfg, SettleMillis: -1}); err != nil {
		t.Fatalf("Main(): %v", err)
	}
	got, err := os.ReadFile(attr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "on" {
		t.Fatalf("attribute = %q, want \"on\"", got)
	}
}
