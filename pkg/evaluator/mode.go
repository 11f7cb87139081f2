// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package evaluator

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/text2moo/pkg/errors"
)

// Mode selects how constraint violations are reported.
type Mode int

const (
	// ModeSeparate reports one constraint value per constraint: the penalty
	// when violated, 0 otherwise. Objectives are left untouched.
	ModeSeparate Mode = iota

	// ModeInline reports no constraint values. When any constraint is
	// violated every objective is replaced by the penalty.
	ModeInline
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSeparate:
		return "separate"
	case ModeInline:
		return "inline"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "separate", "":
		return ModeSeparate, nil
	case "inline":
		return ModeInline, nil
	default:
		return 0, errors.NewWithContext(errors.ErrCodeInvalidEnum,
			fmt.Sprintf("unknown constraint mode %q, expected separate or inline", s),
			map[string]any{"value": s})
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
