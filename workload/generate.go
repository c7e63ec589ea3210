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
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

const (
	// zipfExponent skews the zipf key distribution. Values just above 1
	// give the classic heavy-hitter shape: a handful of hot keys, a long
	// cold tail.
	zipfExponent = 1.1
	// zipfMaxKey bounds the zipf key universe.
	zipfMaxKey = 10000
	// reuseProbability is how often a get or delete targets a key the trace
	// has already inserted rather than a fresh draw. Hitting live keys most
	// of the time is what exercises tombstone churn.
	reuseProbability = 0.8
)

// Presets are the standard operation mixes. En route to a full comparison
// run each preset is generated once per distribution.
var Presets = map[string]Weights{
	"insert_heavy": {Insert: 1.0},
	"read_heavy":   {Insert: 0.05, Get: 0.95},
	"mixed":        {Insert: 0.20, Get: 0.80},
	"delete_heavy": {Insert: 0.20, Get: 0.60, Delete: 0.20},
}

// Generate produces a deterministic trace of size operations from the
// given parameters. The same name/size/distribution/weights/seed always
// yields an identical trace.
func Generate(name string, size int, dist Distribution, weights Weights, seed int64) (*Trace, error) {
	if size <= 0 {
		return nil, errors.Errorf("workload size must be positive, got %d", size)
	}
	switch dist {
	case Uniform, Zipf:
	default:
		return nil, errors.Errorf("unknown distribution %q", dist)
	}
	total := weights.Insert + weights.Get + weights.Delete
	if total <= 0 {
		return nil, errors.New("operation weights must have a positive sum")
	}

	rng := rand.New(rand.NewSource(seed))
	keys := generateKeys(size, dist, seed)
	values := generateValues(size, seed+1000)

	t := &Trace{
		Name:             name,
		Description:      fmt.Sprintf("%s workload with %s key distribution", name, dist),
		Size:             size,
		Distribution:     dist,
		OperationWeights: weights,
		Seed:             seed,
		Operations:       make([]Op, 0, size),
	}

	// inserted tracks keys the trace has inserted and not yet deleted, as a
	// slice for uniform choice plus an index map for O(1) removal.
	inserted := make([]string, 0, size)
	insertedIdx := make(map[string]int, size)

	for i := 0; i < size; i++ {
		var op OpType
		switch r := rng.Float64() * total; {
		case r < weights.Insert:
			op = OpInsert
		case r < weights.Insert+weights.Get:
			op = OpGet
		default:
			op = OpDelete
		}

		key := keys[i]
		switch op {
		case OpInsert:
			t.Operations = append(t.Operations, Op{Op: OpInsert, Key: key, Value: values[i]})
			if _, ok := insertedIdx[key]; !ok {
				insertedIdx[key] = len(inserted)
				inserted = append(inserted, key)
			}
		case OpGet:
			if len(inserted) > 0 && rng.Float64() < reuseProbability {
				key = inserted[rng.Intn(len(inserted))]
			}
			t.Operations = append(t.Operations, Op{Op: OpGet, Key: key})
		case OpDelete:
			if len(inserted) > 0 && rng.Float64() < reuseProbability {
				j := rng.Intn(len(inserted))
				key = inserted[j]
				last := len(inserted) - 1
				inserted[j] = inserted[last]
				insertedIdx[inserted[j]] = j
				inserted = inserted[:last]
				delete(insertedIdx, key)
			}
			t.Operations = append(t.Operations, Op{Op: OpDelete, Key: key})
		}
	}

	return t, nil
}

func generateKeys(n int, dist Distribution, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	keys := make([]string, n)
	switch dist {
	case Zipf:
		z := rand.NewZipf(rng, zipfExponent, 1, zipfMaxKey)
		for i := range keys {
			keys[i] = fmt.Sprintf("key_%d", z.Uint64())
		}
	default:
		for i := range keys {
			keys[i] = fmt.Sprintf("key_%d", rng.Intn(n*10+1))
		}
	}
	return keys
}

func generateValues(n int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	values := make([]string, n)
	for i := range values {
		values[i] = fmt.Sprintf("value_%d", rng.Intn(1_000_000))
	}
	return values
}
