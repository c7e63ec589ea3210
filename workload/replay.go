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
	"github.com/dsa-lab/probemap"
)

// Result summarizes a replay: operation counts by type and outcome, plus
// the map's slot accounting after the final operation.
type Result struct {
	Ops        int
	Inserts    int
	Replaced   int
	Gets       int
	GetHits    int
	Deletes    int
	DeleteHits int
	FinalLen   int
	FinalStats probemap.Stats
}

// Replay drives m through the trace's operations in order and returns the
// outcome tally. The trace is read-only; the map is mutated in place.
func Replay(t *Trace, m *probemap.Map[string, string]) Result {
	var r Result
	for i := range t.Operations {
		op := &t.Operations[i]
		switch op.Op {
		case OpInsert:
			r.Inserts++
			if _, replaced := m.Put(op.Key, op.Value); replaced {
				r.Replaced++
			}
		case OpGet:
			r.Gets++
			if _, ok := m.Get(op.Key); ok {
				r.GetHits++
			}
		case OpDelete:
			r.Deletes++
			if _, ok := m.Delete(op.Key); ok {
				r.DeleteHits++
			}
		}
	}
	r.Ops = len(t.Operations)
	r.FinalLen = m.Len()
	r.FinalStats = m.Stats()
	return r
}
