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

// Package api holds the types shared between the voltcap tools.
package api

import "fmt"

// VoltageValue is a battery voltage in microvolts. On the wire it is
// always a single unsigned 32-bit big-endian cell.
type VoltageValue uint32

// String returns a human-readable representation of the voltage.
func (v VoltageValue) String() string {
	return fmt.Sprintf("%dµV (%.2fV)", uint32(v), float64(v)/1e6)
}

// Limits bounds the voltages a patch is allowed to write.
type Limits struct {
	// MinimumSafe is the floor a target write must never undercut.
	MinimumSafe VoltageValue

	// AbsoluteMaximum is the platform's absolute charge voltage ceiling.
	AbsoluteMaximum VoltageValue
}

// PatchPlan records a single intended mutation of a device tree property.
//
// A plan is created by resolving the property in a decoded tree and is
// consumed exactly once by the patcher; it is never persisted.
type PatchPlan struct {
	// NodePath identifies the node holding the property, e.g. "/battery".
	NodePath string

	// Property is the name of the property to rewrite.
	Property string

	// OldValue is the value the property held when the plan was made.
	OldValue VoltageValue

	// NewValue is the value the patcher will write.
	NewValue VoltageValue
}

// String returns a human-readable representation of the planned mutation.
func (p PatchPlan) String() string {
	return fmt.Sprintf("%s/%s: %v -> %v", p.NodePath, p.Property, p.OldValue, p.NewValue)
}
