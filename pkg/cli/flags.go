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
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/text2moo/pkg/config"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/ingest"
	"github.com/NVIDIA/text2moo/pkg/pipeline"
	"github.com/NVIDIA/text2moo/pkg/serializer"
)

// Shared flags. Each call returns a new instance.
func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage: `Output destination: file path, ConfigMap URI (cm://namespace/name) or
empty for stdout.`,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage: fmt.Sprintf("Output format (supported values: %s). Defaults to the output extension or the command's default",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig for cm:// sources and outputs (default: $KUBECONFIG, ~/.kube/config, in-cluster)",
		Sources: cli.EnvVars("MOO_KUBECONFIG"),
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Usage: `Unit source as variable=location[:format], repeatable.
Locations: file paths, HTTP/HTTPS URLs or ConfigMap URIs (cm://namespace/name[/key]).
Formats: csv, xlsx, json, yaml; inferred from the extension when omitted.`,
	}
}

func payloadFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "payload",
		Aliases: []string{"p"},
		Usage: `Path/URI to the optimization payload (JSON or YAML).
Supports: file paths, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name).`,
		Sources: cli.EnvVars("MOO_PAYLOAD"),
	}
}

func workersFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		Usage:   "Parallel evaluation workers (0 uses all CPUs)",
		Sources: cli.EnvVars("MOO_WORKERS"),
	}
}

// parseOutputFormat resolves --format, falling back to the output path's
// extension and then to def.
func parseOutputFormat(cmd *cli.Command, def serializer.Format) (serializer.Format, error) {
	if f := cmd.String("format"); f != "" {
		return serializer.ParseFormat(f)
	}
	if out := cmd.String("output"); out != "" && !strings.HasPrefix(out, serializer.ConfigMapURIScheme) {
		return serializer.FormatFromPath(out), nil
	}
	return def, nil
}

// sourceOptions returns the options for opening sources and writing outputs.
func sourceOptions(cmd *cli.Command) []serializer.Option {
	if kc := cmd.String("kubeconfig"); kc != "" {
		return []serializer.Option{serializer.WithKubeconfig(kc)}
	}
	return nil
}

func newRegistry(cmd *cli.Command) *ingest.Registry {
	return ingest.DefaultRegistry().WithSourceOptions(sourceOptions(cmd)...)
}

// parseSources parses every --source value.
func parseSources(cmd *cli.Command, reg *ingest.Registry) ([]pipeline.Source, error) {
	raw := cmd.StringSlice("source")
	sources := make([]pipeline.Source, 0, len(raw))
	for _, s := range raw {
		src, err := pipeline.ParseSource(s, reg)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// loadPayload reads --payload.
func loadPayload(ctx context.Context, cmd *cli.Command) (*config.Payload, error) {
	path := cmd.String("payload")
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "--payload is required")
	}
	p, err := serializer.FromFile[config.Payload](ctx, path, sourceOptions(cmd)...)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load payload", err,
			map[string]any{"payload": path})
	}
	return p, nil
}

// newRequest assembles a pipeline request from the shared flags.
func newRequest(ctx context.Context, cmd *cli.Command, reg *ingest.Registry) (*pipeline.Request, error) {
	sources, err := parseSources(cmd, reg)
	if err != nil {
		return nil, err
	}
	payload, err := loadPayload(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return &pipeline.Request{
		Sources: sources,
		Payload: payload,
		Workers: int(cmd.Int("workers")),
	}, nil
}

// writeDocument serializes doc to --output in --format.
func writeDocument(ctx context.Context, cmd *cli.Command, def serializer.Format, doc any) error {
	format, err := parseOutputFormat(cmd, def)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"), sourceOptions(cmd)...)
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	return ser.Serialize(ctx, doc)
}

// parseDecision parses a comma or space separated index vector.
func parseDecision(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"empty decision vector", map[string]any{"decision": s})
	}
	x := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid index %q in decision vector", f), err, map[string]any{"decision": s})
		}
		x[i] = v
	}
	return x, nil
}
