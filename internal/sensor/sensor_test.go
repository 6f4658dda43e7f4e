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

package sensor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/voltcap/voltcap/api"
)

func TestRead(t *testing.T) {
	for _, test := range []struct {
		desc    string
		content string
		want    api.VoltageValue
		wantErr bool
	}{
		{desc: "plain", content: "3700000", want: 3700000},
		{desc: "trailing newline", content: "3700000\n", want: 3700000},
		{desc: "junk", content: "not-a-voltage\n", wantErr: true},
		{desc: "negative", content: "-42\n", wantErr: true},
		{desc: "empty", content: "", wantErr: true},
	} {
		t.Run(test.desc, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "voltage_now")
			if err := os.WriteFile(path, []byte(test.content), 0644); err != nil {
				t.Fatal(err)
			}
			got, err := Sensor{Path: path}.Read()
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Read() error = %v, wantErr %t", err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("Read() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestReadMissingAttribute(t *testing.T) {
	s := ForSupply(t.TempDir(), "battery")
	if _, err := s.Read(); err == nil {
		t.Fatal("Read() succeeded against a missing supply")
	}
}

func TestForSupply(t *testing.T) {
	s := ForSupply("/sys/class/power_supply", "axp20x-battery")
	if want := "/sys/class/power_supply/axp20x-battery/voltage_now"; s.Path != want {
		t.Fatalf("ForSupply() path = %q, want %q", s.Path, want)
	}
}
