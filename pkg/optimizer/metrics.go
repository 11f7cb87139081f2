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

package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moo_optimizer_generations_total",
			Help: "Total number of completed generations by algorithm",
		},
		[]string{"algorithm"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moo_optimizer_run_duration_seconds",
			Help:    "Duration of optimizer runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"algorithm"},
	)

	frontSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moo_optimizer_front_size",
			Help:    "Number of solutions returned by optimizer runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"algorithm"},
	)

	canceledRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moo_optimizer_canceled_total",
			Help: "Total number of optimizer runs stopped by cancellation",
		},
		[]string{"algorithm"},
	)
)
