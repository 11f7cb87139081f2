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
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/NVIDIA/text2moo/pkg/defaults"
	"github.com/NVIDIA/text2moo/pkg/header"
)

// ConfigMapURIScheme prefixes ConfigMap locations: cm://namespace/name or
// cm://namespace/name/key.
const ConfigMapURIScheme = "cm://"

// ConfigMap data keys written alongside the document.
const (
	configMapFormatKey    = "format"
	configMapTimestampKey = "timestamp"
	fieldManager          = "text2moo"
)

// configMapLocation is a parsed ConfigMap URI.
type configMapLocation struct {
	namespace string
	name      string
	key       string
}

// ConfigMapWriter writes serialized data to a Kubernetes ConfigMap.
// The ConfigMap is created if it doesn't exist, or updated if it does.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	opts      *options
}

// NewConfigMapWriter creates a new ConfigMapWriter that writes to the specified
// namespace and ConfigMap name in the given format.
func NewConfigMapWriter(namespace, name string, format Format, opts ...Option) *ConfigMapWriter {
	return &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    knownOrJSON(format),
		opts:      newOptions(opts),
	}
}

// Serialize writes doc to the ConfigMap. The ConfigMap will have:
//   - data.<kind>.<ext>: the serialized document, kind taken from its header
//   - data.format: the format used
//   - data.timestamp: when the document was created
func (w *ConfigMapWriter) Serialize(ctx context.Context, doc any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	kube, err := w.opts.kubeClient()
	if err != nil {
		return fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	content, err := Marshal(w.format, doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	kind, version, timestamp := "document", "unknown", time.Now().UTC().Format(time.RFC3339)
	if h, ok := doc.(interface {
		GetKind() header.Kind
		GetMetadata() map[string]string
	}); ok {
		if k := h.GetKind().String(); k != "" {
			kind = strings.ToLower(k)
		}
		if v, exists := h.GetMetadata()["version"]; exists {
			version = v
		}
		if ts, exists := h.GetMetadata()["timestamp"]; exists {
			timestamp = ts
		}
	}

	dataKey := fmt.Sprintf("%s.%s", kind, w.format.Extension())
	configMap := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "text2moo",
			"app.kubernetes.io/component": kind,
			"app.kubernetes.io/version":   version,
		}).
		WithData(map[string]string{
			dataKey:               string(content),
			configMapFormatKey:    string(w.format),
			configMapTimestampKey: timestamp,
		})

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"key", dataKey,
		"format", w.format)

	// Server-side apply creates or updates atomically. Force takes ownership
	// from earlier field managers.
	_, err = kube.CoreV1().ConfigMaps(w.namespace).Apply(
		writeCtx,
		configMap,
		metav1.ApplyOptions{
			FieldManager: fieldManager,
			Force:        true,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap: %w", err)
	}
	return nil
}

// Close is a no-op for ConfigMapWriter as there are no resources to release.
// This method exists to satisfy the Closer interface.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// readConfigMap returns the data key and content addressed by loc. Without
// an explicit key, keys whose extension matches the recorded format are
// preferred, then the first data key in sorted order.
func readConfigMap(ctx context.Context, loc configMapLocation, o *options) (string, []byte, error) {
	readCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
	defer cancel()

	kube, err := o.kubeClient()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	cm, err := kube.CoreV1().ConfigMaps(loc.namespace).Get(readCtx, loc.name, metav1.GetOptions{})
	if err != nil {
		return "", nil, fmt.Errorf("failed to get ConfigMap %s/%s: %w", loc.namespace, loc.name, err)
	}

	if loc.key != "" {
		content, ok := cm.Data[loc.key]
		if !ok {
			return "", nil, fmt.Errorf("ConfigMap %s/%s has no key %q", loc.namespace, loc.name, loc.key)
		}
		return loc.key, []byte(content), nil
	}

	keys := make([]string, 0, len(cm.Data))
	for k := range cm.Data {
		if k != configMapFormatKey && k != configMapTimestampKey {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", nil, fmt.Errorf("ConfigMap %s/%s has no document data", loc.namespace, loc.name)
	}
	sort.Strings(keys)

	chosen := keys[0]
	if f, ok := cm.Data[configMapFormatKey]; ok {
		want := "." + Format(f).Extension()
		for _, k := range keys {
			if path.Ext(k) == want {
				chosen = k
				break
			}
		}
	}

	slog.Debug("reading from ConfigMap",
		"namespace", loc.namespace,
		"name", loc.name,
		"key", chosen,
		"size", len(cm.Data[chosen]))
	return chosen, []byte(cm.Data[chosen]), nil
}

// parseConfigMapURI parses cm://namespace/name with an optional /key suffix.
func parseConfigMapURI(uri string) (configMapLocation, error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return configMapLocation{}, fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 3)
	if len(parts) < 2 {
		return configMapLocation{}, fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	loc := configMapLocation{
		namespace: strings.TrimSpace(parts[0]),
		name:      strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		loc.key = strings.TrimSpace(parts[2])
		if loc.key == "" {
			return configMapLocation{}, fmt.Errorf("invalid ConfigMap URI: key cannot be empty")
		}
	}

	if loc.namespace == "" {
		return configMapLocation{}, fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if loc.name == "" {
		return configMapLocation{}, fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	return loc, nil
}
