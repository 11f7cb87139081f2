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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/text2moo/pkg/evaluator"
	"github.com/NVIDIA/text2moo/pkg/pipeline"
	"github.com/NVIDIA/text2moo/pkg/serializer"
)

func evaluateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "evaluate",
		EnableShellCompletion: true,
		Usage:                 "Score explicit decision vectors.",
		Description: `Evaluate one or more decision vectors. Each vector holds one unit
index per variable, in payload order.

In separate mode constraint violations are reported in their own channel.
In inline mode any violation replaces every objective with the penalty.

Examples:

  moo evaluate --source engine=engines.csv --payload payload.yaml \
    --decision 0,1 --decision 2,0 --mode inline`,
		Flags: []cli.Flag{
			sourceFlag(),
			payloadFlag(),
			&cli.StringSliceFlag{
				Name:    "decision",
				Aliases: []string{"d"},
				Usage:   "Decision vector as comma separated unit indices, repeatable",
			},
			&cli.StringFlag{
				Name:  "mode",
				Value: evaluator.ModeSeparate.String(),
				Usage: "Constraint handling: separate or inline",
			},
			workersFlag(),
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

			raw := cmd.StringSlice("decision")
			decisions := make([][]int, 0, len(raw))
			for _, d := range raw {
				x, err := parseDecision(d)
				if err != nil {
					return err
				}
				decisions = append(decisions, x)
			}

			runner := pipeline.New(pipeline.WithRegistry(reg), pipeline.WithVersion(version))
			ev, err := runner.Evaluate(ctx, &pipeline.EvaluateRequest{
				Request:   *req,
				Mode:      cmd.String("mode"),
				Decisions: decisions,
			})
			if err != nil {
				return err
			}

			return writeDocument(ctx, cmd, serializer.FormatText, ev)
		},
	}
}
