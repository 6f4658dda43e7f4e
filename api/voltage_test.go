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

// Package api_test holds blackbox tests for the api package.
package api_test

import (
	"regexp"
	"testing"

	"github.com/voltcap/voltcap/api"
)

func TestVoltageValueToString(t *testing.T) {
	for _, test := range []struct {
		desc string
		v    api.VoltageValue
		r    *regexp.Regexp
	}{
		{desc: "typical", v: 3800000, r: regexp.MustCompile(`3800000.*3\.80`)},
		{desc: "zero", v: 0, r: regexp.MustCompile(`0.*0\.00`)},
	} {
		t.Run(test.desc, func(t *testing.T) {
			if got := test.v.String(); !test.r.MatchString(got) {
				t.Fatalf("Failed to match output %q", got)
			}
		})
	}
}

func TestPatchPlanToString(t *testing.T) {
	p := api.PatchPlan{
		NodePath: "/battery",
		Property: "voltage-max-design-microvolt",
		OldValue: 4400000,
		NewValue: 3800000,
	}
	r := regexp.MustCompile(`/battery/voltage-max-design-microvolt.*4400000.*->.*3800000`)
	if got := p.String(); !r.MatchString(got) {
		t.Fatalf("Failed to match output %q", got)
	}
}
