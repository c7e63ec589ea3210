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

// Package workload generates, persists, and replays deterministic
// key/value operation traces against a probemap.Map. A trace is a JSON
// document carrying a named, seeded sequence of insert/get/delete
// operations; replaying the same trace always drives the map through the
// same states, which is what makes results comparable across runs and
// implementations. The map itself has no knowledge of traces; this package
// is strictly a consumer of its public operations.
package workload

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sugawarayuuta/sonnet"
)

// OpType identifies a trace operation.
type OpType string

const (
	OpInsert OpType = "insert"
	OpGet    OpType = "get"
	OpDelete OpType = "delete"
)

// Distribution names a key distribution used during generation.
type Distribution string

const (
	Uniform Distribution = "uniform"
	Zipf    Distribution = "zipf"
)

// Op is a single operation in a trace. Value is only set for inserts.
type Op struct {
	Op    OpType `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// Weights is the relative operation mix of a trace. The weights need not
// sum to 1; generation normalizes them.
type Weights struct {
	Insert float64 `json:"insert"`
	Get    float64 `json:"get"`
	Delete float64 `json:"delete"`
}

// Trace is a deterministic workload: the generation parameters plus the
// fully materialized operation sequence they produced. Operations is
// authoritative; the parameters are retained so a trace file documents its
// own provenance.
type Trace struct {
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty"`
	Size             int          `json:"size"`
	Distribution     Distribution `json:"distribution"`
	OperationWeights Weights      `json:"operation_weights"`
	Seed             int64        `json:"seed"`
	Operations       []Op         `json:"operations"`
}

// Load reads and decodes a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading workload")
	}
	var t Trace
	if err := sonnet.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrapf(err, "decoding workload %s", path)
	}
	if err := t.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid workload %s", path)
	}
	return &t, nil
}

// Save encodes the trace and writes it to path.
func (t *Trace) Save(path string) error {
	if err := t.validate(); err != nil {
		return errors.Wrap(err, "invalid workload")
	}
	data, err := sonnet.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "encoding workload")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "writing workload")
}

func (t *Trace) validate() error {
	switch t.Distribution {
	case Uniform, Zipf:
	default:
		return errors.Errorf("unknown distribution %q", t.Distribution)
	}
	for i := range t.Operations {
		switch t.Operations[i].Op {
		case OpInsert, OpGet, OpDelete:
		default:
			return errors.Errorf("operation %d: unknown op %q", i, t.Operations[i].Op)
		}
	}
	return nil
}
