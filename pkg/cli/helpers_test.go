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

package cli

import (
	"context"
	"reflect"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		output     string
		def        serializer.Format
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "valid table format",
			format:     "table",
			wantFormat: serializer.FormatTable,
		},
		{
			name:       "format wins over output extension",
			format:     "text",
			output:     "report.json",
			wantFormat: serializer.FormatText,
		},
		{
			name:       "format from output extension",
			output:     "report.yml",
			def:        serializer.FormatText,
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "configmap output uses default",
			output:     "cm://moo/report",
			def:        serializer.FormatText,
			wantFormat: serializer.FormatText,
		},
		{
			name:       "empty format uses default",
			def:        serializer.FormatText,
			wantFormat: serializer.FormatText,
		},
		{
			name:    "invalid format xml",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "invalid format csv",
			format:  "csv",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: tt.format},
					&cli.StringFlag{Name: "output", Value: tt.output},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c, tt.def)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if tt.wantErr && !errors.IsCode(err, errors.ErrCodeInvalidEnum) {
						t.Errorf("parseOutputFormat() code = %s, want %s", errors.CodeOf(err), errors.ErrCodeInvalidEnum)
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "0,1", want: []int{0, 1}},
		{in: "2, 0 ,1", want: []int{2, 0, 1}},
		{in: "3 4", want: []int{3, 4}},
		{in: "-1,0", want: []int{-1, 0}},
		{in: "", wantErr: true},
		{in: " , ", wantErr: true},
		{in: "a,1", wantErr: true},
		{in: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDecision(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDecision(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
					t.Errorf("parseDecision(%q) code = %s", tt.in, errors.CodeOf(err))
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseDecision(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"timeout", errors.New(errors.ErrCodeTimeout, "interrupted"), exitCanceled},
		{"canceled", context.Canceled, exitCanceled},
		{"wrapped deadline", errors.Wrap(errors.ErrCodeInternal, "run", context.DeadlineExceeded), exitCanceled},
		{"validation", errors.New(errors.ErrCodeUnknownVariable, "bad"), exitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
