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
	"fmt"
	"log/slog"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/header"
	"github.com/NVIDIA/text2moo/pkg/pipeline"
	"github.com/NVIDIA/text2moo/pkg/serializer"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

// GroupEntry is one ingested variable in a GroupDocument.
type GroupEntry struct {
	Variable   string       `json:"variable" yaml:"variable"`
	Attributes []string     `json:"attributes" yaml:"attributes"`
	Units      []*unit.Unit `json:"units" yaml:"units"`
}

// GroupDocument is the output of the ingest command.
type GroupDocument struct {
	header.Header `json:",inline" yaml:",inline"`

	Groups []GroupEntry `json:"groups" yaml:"groups"`
}

func ingestCmd() *cli.Command {
	return &cli.Command{
		Name:                  "ingest",
		EnableShellCompletion: true,
		Usage:                 "Convert unit sources into normalized groups.",
		Description: `Read one or more unit sources and emit the normalized groups.

Examples:

Convert a CSV file:
  moo ingest --source engine=engines.csv

Read a sheet stored in a ConfigMap and write YAML:
  moo ingest --source body=cm://moo/bodies/bodies.xlsx --format yaml

Only check the sources:
  moo ingest --source engine=engines.csv --check`,
		Flags: []cli.Flag{
			sourceFlag(),
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Validate the sources without emitting groups",
			},
			kubeconfigFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg := newRegistry(cmd)
			sources, err := parseSources(cmd, reg)
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return errors.New(errors.ErrCodeInvalidRequest, "at least one --source is required")
			}

			if cmd.Bool("check") {
				for _, s := range sources {
					if err := reg.Validate(ctx, s.Location, s.Format); err != nil {
						return fmt.Errorf("variable %s: %w", s.Variable, err)
					}
					slog.Info("source is valid", "variable", s.Variable, "location", s.Location)
				}
				return nil
			}

			runner := pipeline.New(pipeline.WithRegistry(reg), pipeline.WithVersion(version))
			groups, err := runner.Ingest(ctx, &pipeline.Request{Sources: sources})
			if err != nil {
				return err
			}

			return writeDocument(ctx, cmd, serializer.FormatYAML, newGroupDocument(groups))
		},
	}
}

func newGroupDocument(groups map[string]*unit.Group) *GroupDocument {
	doc := &GroupDocument{Groups: make([]GroupEntry, 0, len(groups))}
	doc.Init(header.KindGroup, header.APIVersion, version)

	names := make([]string, 0, len(groups))
	for v := range groups {
		names = append(names, v)
	}
	sort.Strings(names)
	for _, v := range names {
		g := groups[v]
		doc.Groups = append(doc.Groups, GroupEntry{
			Variable:   v,
			Attributes: g.AttributeNames,
			Units:      g.Units,
		})
	}
	return doc
}
