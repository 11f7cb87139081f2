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
	"io"
	"strings"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/NVIDIA/text2moo/pkg/header"
)

func TestParseConfigMapURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    configMapLocation
		wantErr bool
	}{
		{
			name: "valid URI",
			uri:  "cm://moo/drone-payload",
			want: configMapLocation{namespace: "moo", name: "drone-payload"},
		},
		{
			name: "valid URI with spaces",
			uri:  "cm://moo / drone-payload ",
			want: configMapLocation{namespace: "moo", name: "drone-payload"},
		},
		{
			name: "valid URI with key",
			uri:  "cm://moo/sources/engines.csv",
			want: configMapLocation{namespace: "moo", name: "sources", key: "engines.csv"},
		},
		{name: "empty key", uri: "cm://moo/sources/", wantErr: true},
		{name: "missing scheme", uri: "moo/drone-payload", wantErr: true},
		{name: "wrong scheme", uri: "http://moo/drone-payload", wantErr: true},
		{name: "missing name", uri: "cm://moo/", wantErr: true},
		{name: "missing namespace", uri: "cm:///drone-payload", wantErr: true},
		{name: "missing separator", uri: "cm://moo", wantErr: true},
		{name: "empty URI", uri: "", wantErr: true},
		{name: "only scheme", uri: "cm://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseConfigMapURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseConfigMapURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseConfigMapURI() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewConfigMapWriter(t *testing.T) {
	tests := []struct {
		name       string
		format     Format
		wantFormat Format
	}{
		{"valid JSON format", FormatJSON, FormatJSON},
		{"valid YAML format", FormatYAML, FormatYAML},
		{"text format", FormatText, FormatText},
		{"unknown format defaults to JSON", Format("unknown"), FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewConfigMapWriter("moo", "report", tt.format)
			if writer.namespace != "moo" || writer.name != "report" {
				t.Errorf("NewConfigMapWriter() = %s/%s", writer.namespace, writer.name)
			}
			if writer.format != tt.wantFormat {
				t.Errorf("NewConfigMapWriter() format = %v, want %v", writer.format, tt.wantFormat)
			}
			if err := writer.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestConfigMapWriter_Serialize(t *testing.T) {
	kube := fake.NewClientset()
	doc := sample{Name: "drone", Count: 1}
	doc.Init(header.KindReport, header.APIVersion, "v0.1.0")

	w := NewConfigMapWriter("moo", "report", FormatYAML, WithKubeClient(kube))
	if err := w.Serialize(context.Background(), doc); err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	cm, err := kube.CoreV1().ConfigMaps("moo").Get(context.Background(), "report", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !strings.Contains(cm.Data["report.yaml"], "name: drone") {
		t.Errorf("report.yaml = %q", cm.Data["report.yaml"])
	}
	if cm.Data["format"] != "yaml" {
		t.Errorf("format = %q", cm.Data["format"])
	}
	if cm.Labels["app.kubernetes.io/version"] != "v0.1.0" || cm.Labels["app.kubernetes.io/component"] != "report" {
		t.Errorf("labels = %v", cm.Labels)
	}

	// Round trip through the reader.
	got, err := FromFile[sample](context.Background(), "cm://moo/report", WithKubeClient(kube))
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if got.Name != "drone" || got.Kind != header.KindReport {
		t.Errorf("FromFile() = %+v", got)
	}
}

func TestOpen_ConfigMap(t *testing.T) {
	kube := newFakeConfigMap(map[string]string{
		"b.json":      `{"name":"from-json"}`,
		"a.yaml":      "name: from-yaml\n",
		"engines.csv": "id,name\ne1,Engine A\n",
		"format":      "json",
		"timestamp":   "2026-01-01T00:00:00Z",
	})
	ctx := context.Background()

	tests := []struct {
		name     string
		uri      string
		wantName string
		wantBody string
		wantErr  bool
	}{
		{name: "format hint picks key", uri: "cm://moo/payload", wantName: "b.json", wantBody: `{"name":"from-json"}`},
		{name: "explicit key", uri: "cm://moo/payload/engines.csv", wantName: "engines.csv", wantBody: "id,name\ne1,Engine A\n"},
		{name: "missing key", uri: "cm://moo/payload/nope.csv", wantErr: true},
		{name: "missing configmap", uri: "cm://moo/other", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Open(ctx, tt.uri, WithKubeClient(kube))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer src.Close()
			body, err := io.ReadAll(src)
			if err != nil {
				t.Fatal(err)
			}
			if src.Name != tt.wantName || string(body) != tt.wantBody {
				t.Errorf("Open() = %q %q", src.Name, body)
			}
		})
	}
}

func TestOpen_ConfigMapWithoutHint(t *testing.T) {
	kube := newFakeConfigMap(map[string]string{
		"z.json": `{}`,
		"a.yaml": "name: first\n",
	})
	src, err := Open(context.Background(), "cm://moo/payload", WithKubeClient(kube))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if src.Name != "a.yaml" {
		t.Errorf("Name = %q, want first sorted key", src.Name)
	}

	empty := newFakeConfigMap(map[string]string{"format": "yaml"})
	if _, err := Open(context.Background(), "cm://moo/payload", WithKubeClient(empty)); err == nil {
		t.Error("Open() expected error for ConfigMap without documents")
	}
}
