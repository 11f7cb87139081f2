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

package serializer

import (
	"context"

	"github.com/NVIDIA/text2moo/pkg/k8s/client"
)

// Serializer writes a document to its destination.
//
// The context parameter is used for cancellation and timeouts, particularly
// important for implementations that perform I/O operations (e.g., ConfigMap writes).
type Serializer interface {
	Serialize(ctx context.Context, doc any) error
}

// Closer is an optional interface that Serializers can implement
// if they need to release resources (e.g., close file handles).
type Closer interface {
	Close() error
}

// options configure where documents are read from and written to.
type options struct {
	kubeconfig string
	kube       client.Interface
	http       *HTTPReader
}

// Option is a functional option for readers and writers.
type Option func(*options)

// WithKubeconfig sets the kubeconfig used for ConfigMap locations.
func WithKubeconfig(path string) Option {
	return func(o *options) {
		o.kubeconfig = path
	}
}

// WithKubeClient sets the Kubernetes client used for ConfigMap locations.
func WithKubeClient(c client.Interface) Option {
	return func(o *options) {
		o.kube = c
	}
}

// WithHTTPReader sets the reader used for http(s) locations.
func WithHTTPReader(r *HTTPReader) Option {
	return func(o *options) {
		o.http = r
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// kubeClient returns the configured client or builds one from kubeconfig.
func (o *options) kubeClient() (client.Interface, error) {
	if o.kube != nil {
		return o.kube, nil
	}
	if o.kubeconfig != "" {
		c, _, err := client.GetKubeClientWithConfig(o.kubeconfig)
		return c, err
	}
	c, _, err := client.GetKubeClient()
	return c, err
}

func (o *options) httpReader() *HTTPReader {
	if o.http != nil {
		return o.http
	}
	return NewHTTPReader()
}
