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

// Package gate holds the pre-flight safety check run before any patch is
// written.
package gate

import (
	"fmt"

	"github.com/voltcap/voltcap/api"
)

// OverVoltageError reports a target voltage the gate refuses to write.
type OverVoltageError struct {
	Current api.VoltageValue
	Target  api.VoltageValue
	Limits  api.Limits
	Reason  string
}

func (e OverVoltageError) Error() string {
	return "unsafe target voltage: " + e.Reason
}

// Check validates a target charge voltage ceiling against the live battery
// voltage and the platform limits. It passes iff
// current <= target and limits.MinimumSafe <= target <= limits.AbsoluteMaximum.
//
// Writing a ceiling below the battery's present voltage is rejected
// because the charging hardware's state machine misbehaves when the
// battery already sits above the configured maximum.
func Check(current, target api.VoltageValue, limits api.Limits) error {
	if limits.MinimumSafe > limits.AbsoluteMaximum {
		return fmt.Errorf("invalid limits: floor %v exceeds ceiling %v", limits.MinimumSafe, limits.AbsoluteMaximum)
	}
	fail := func(reason string) error {
		return OverVoltageError{Current: current, Target: target, Limits: limits, Reason: reason}
	}
	if target < limits.MinimumSafe {
		return fail(fmt.Sprintf("target %v undercuts the minimum safe voltage %v", target, limits.MinimumSafe))
	}
	if target > limits.AbsoluteMaximum {
		return fail(fmt.Sprintf("target %v exceeds the absolute maximum %v", target, limits.AbsoluteMaximum))
	}
	if current > target {
		return fail(fmt.Sprintf("battery is at %v, above the requested ceiling %v; wait for discharge or choose an intermediate target", current, target))
	}
	return nil
}
