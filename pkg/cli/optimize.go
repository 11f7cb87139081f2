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
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/text2moo/pkg/defaults"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/optimizer"
	"github.com/NVIDIA/text2moo/pkg/pipeline"
	"github.com/NVIDIA/text2moo/pkg/report"
	"github.com/NVIDIA/text2moo/pkg/serializer"
)

func optimizeCmd() *cli.Command {
	algs := optimizer.Algorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = string(a)
	}

	return &cli.Command{
		Name:                  "optimize",
		EnableShellCompletion: true,
		Usage:                 "Search for Pareto-optimal unit combinations.",
		Description: `Run a full optimization: ingest the sources, validate the payload,
search with the selected algorithm and report the distinct non-dominated
solutions.

Examples:

Default algorithm, text report on stdout:
  moo optimize --source engine=engines.csv --source body=bodies.csv --payload payload.yaml

NSGA-II, JSON report and an interactive front plot:
  moo optimize -s engine=engines.csv -s body=bodies.csv -p payload.yaml \
    --algorithm nsga2 --format json --output report.json --plot front.html`,
		Flags: []cli.Flag{
			sourceFlag(),
			payloadFlag(),
			&cli.StringFlag{
				Name:    "algorithm",
				Aliases: []string{"a"},
				Value:   string(optimizer.DefaultAlgorithm),
				Usage:   fmt.Sprintf("Search algorithm (supported values: %s)", strings.Join(names, ", ")),
				Sources: cli.EnvVars("MOO_ALGORITHM"),
			},
			&cli.StringFlag{
				Name:  "plot",
				Usage: "Write an HTML scatter plot of the front to this file",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.CLIOptimizeTimeout,
				Usage: "Abort the run after this long; checked between generations",
			},
			workersFlag(),
			kubeconfigFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			reg := newRegistry(cmd)
			req, err := newRequest(ctx, cmd, reg)
			if err != nil {
				return err
			}
			req.Algorithm = cmd.String("algorithm")

			runner := pipeline.New(pipeline.WithRegistry(reg), pipeline.WithVersion(version))
			rep, err := runner.Run(ctx, req)
			if err != nil {
				return err
			}

			if path := cmd.String("plot"); path != "" {
				if err := writePlot(path, rep); err != nil {
					return err
				}
			}

			return writeDocument(ctx, cmd, serializer.FormatText, rep)
		},
	}
}

func writePlot(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to create plot file", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	if err := report.Plot(f, rep); err != nil {
		return err
	}
	slog.Info("plot written", "path", path, "solutions", len(rep.Solutions))
	return nil
}
