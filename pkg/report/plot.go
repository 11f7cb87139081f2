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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/text2moo/pkg/errors"
)

// Plot renders the first two recovered objectives of every solution as an
// HTML scatter chart. Infeasible solutions get their own series.
func Plot(w io.Writer, r *Report) error {
	if r == nil || len(r.Solutions) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "report has no solutions to plot")
	}
	if len(r.Solutions[0].Totals) < 2 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"plotting needs at least two objectives",
			map[string]any{"objectives": len(r.Solutions[0].Totals)})
	}

	xName := "total_" + r.Solutions[0].Totals[0].Objective
	yName := "total_" + r.Solutions[0].Totals[1].Objective

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s solutions", cases.Upper(language.English).String(r.Algorithm)),
			Subtitle: fmt.Sprintf("%d solutions, %d generations", len(r.Solutions), r.Generations),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	var feasible, infeasible []opts.ScatterData
	for i, s := range r.Solutions {
		point := opts.ScatterData{
			Name:       fmt.Sprintf("Solution %d: %s", i+1, selectionLabel(s)),
			Value:      []float64{s.Totals[0].Value, s.Totals[1].Value},
			Symbol:     "circle",
			SymbolSize: 10,
		}
		if s.Feasible != nil && !*s.Feasible {
			point.Symbol = "triangle"
			infeasible = append(infeasible, point)
			continue
		}
		feasible = append(feasible, point)
	}

	scatter.AddSeries("Solutions", feasible)
	if len(infeasible) > 0 {
		scatter.AddSeries("Infeasible", infeasible)
	}
	scatter.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
		charts.WithEmphasisOpts(opts.Emphasis{}),
	)

	return scatter.Render(w)
}

func selectionLabel(s Solution) string {
	names := make([]string, len(s.Selections))
	for i, sel := range s.Selections {
		names[i] = sel.UnitName
	}
	return strings.Join(names, ", ")
}
