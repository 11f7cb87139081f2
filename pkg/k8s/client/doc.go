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

// Package client provides a shared Kubernetes client for ConfigMap I/O.
//
// Payloads, unit groups and reports can be read from or written to
// ConfigMaps using cm://namespace/name URIs. Every such operation in a
// process goes through one client created lazily with sync.Once, so a
// CLI run that reads several groups and writes a report opens a single
// connection to the API server.
//
// Configuration discovery, in order:
//
//   - an explicit kubeconfig path passed by the caller
//   - the KUBECONFIG environment variable
//   - ~/.kube/config when present
//   - in-cluster service account configuration
//
// Usage:
//
//	clientset, config, err := client.GetKubeClient()
//	if err != nil {
//	    return err
//	}
//	slog.Info("connected", "host", config.Host, "auth", client.AuthMethod(config))
//
// Tests substitute fake.NewClientset() through serializer.WithKubeClient;
// the alias Interface keeps signatures independent of the concrete type.
package client
