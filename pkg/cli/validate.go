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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/text2moo/pkg/pipeline"
	"github.com/NVIDIA/text2moo/pkg/serializer"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate sources and payload, print the resolved configuration.",
		Description: `Ingest the sources, check the payload against them and print the
configuration with defaults applied.

Checks run in order: unknown variables, unknown attributes, enum values
(objective direction, constraint operator) and finally numeric settings.

Examples:

  moo validate --source engine=engines.csv --source body=bodies.yaml --payload payload.yaml`,
		Flags: []cli.Flag{
			sourceFlag(),
			payloadFlag(),
			kubeconfigFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg := newRegistry(cmd)
			req, err := newRequest(ctx, cmd, reg)
			if err != nil {
				return err
			}

			runner := pipeline.New(pipeline.WithRegistry(reg), pipeline.WithVersion(version))
			cfg, err := runner.Configure(ctx, req)
			if err != nil {
				return err
			}

			slog.Info("configuration is valid",
				"variables", len(cfg.Variables),
				"objectives", len(cfg.Objectives),
				"constraints", len(cfg.Constraints))

			return writeDocument(ctx, cmd, serializer.FormatYAML, cfg.Document(version))
		},
	}
}
