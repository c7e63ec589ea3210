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

package probemap

// Stats is a point-in-time snapshot of a map's slot accounting. Tombstones
// accumulate under put/delete churn and are only reclaimed by insert reuse
// or a resize, so TombstoneRatio creeping toward LoadFactor is the
// signature of a degrading table.
type Stats struct {
	Size           int
	Tombstones     int
	Capacity       int
	LoadFactor     float64
	TombstoneRatio float64
}

// Stats returns the current slot accounting for the map.
func (m *Map[K, V]) Stats() Stats {
	return Stats{
		Size:           m.size,
		Tombstones:     m.tombstones,
		Capacity:       len(m.slots),
		LoadFactor:     m.loadFactor(),
		TombstoneRatio: float64(m.tombstones) / float64(len(m.slots)),
	}
}
