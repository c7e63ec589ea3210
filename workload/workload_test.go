// Copyright 2024 The probemap Authors
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

package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	trace, err := Generate("mixed_uniform", 500, Uniform, Presets["mixed"], 46)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mixed_uniform.json")
	require.NoError(t, trace.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, trace, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decoding workload")
}

func TestLoadRejectsUnknownOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown_op.json")
	doc := `{
  "name": "bad",
  "size": 1,
  "distribution": "uniform",
  "operation_weights": {"insert": 1, "get": 0, "delete": 0},
  "seed": 1,
  "operations": [{"op": "upsert", "key": "key_1", "value": "value_1"}]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown op "upsert"`)
}

func TestLoadRejectsUnknownDistribution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown_dist.json")
	doc := `{
  "name": "bad",
  "size": 0,
  "distribution": "gaussian",
  "operation_weights": {"insert": 1, "get": 0, "delete": 0},
  "seed": 1,
  "operations": []
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown distribution "gaussian"`)
}
