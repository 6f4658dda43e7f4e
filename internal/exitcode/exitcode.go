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

// Package exitcode maps the error taxonomy onto distinct process exit
// codes so init scripts can tell failure classes apart.
package exitcode

import (
	"errors"

	"github.com/voltcap/voltcap/internal/fdt"
	"github.com/voltcap/voltcap/internal/gate"
	"github.com/voltcap/voltcap/internal/patch"
)

const (
	OK          = 0
	Failure     = 1 // I/O and everything uncategorised
	Format      = 2
	NotFound    = 3
	Ambiguous   = 4
	Encoding    = 5
	OverVoltage = 6
)

// For returns the exit code for an error from any of the tools.
func For(err error) int {
	if err == nil {
		return OK
	}
	var (
		formatErr    fdt.FormatError
		notFoundErr  patch.NotFoundError
		ambiguousErr patch.AmbiguousMatchError
		encodingErr  patch.EncodingMismatchError
		voltageErr   gate.OverVoltageError
	)
	switch {
	case errors.As(err, &formatErr):
		return Format
	case errors.As(err, &notFoundErr):
		return NotFound
	case errors.As(err, &ambiguousErr):
		return Ambiguous
	case errors.As(err, &encodingErr):
		return Encoding
	case errors.As(err, &voltageErr):
		return OverVoltage
	default:
		return Failure
	}
}
