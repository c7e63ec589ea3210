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

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// HashFn maps a key to a 64-bit integer. A HashFn must be deterministic:
// equal keys must hash to equal values for the lifetime of the map using
// it. It need not be consistent across map instances or process runs.
type HashFn[K comparable] func(key K) uint64

// defaultHasher returns a HashFn backed by hash/maphash with a fresh seed,
// so independent maps see different probe orders for the same keys.
func defaultHasher[K comparable]() HashFn[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}

// StringHash is a HashFn for string keys backed by xxhash. Unlike the
// default hasher it is unseeded and stable across processes, which makes
// probe layouts reproducible when replaying recorded workloads.
func StringHash(key string) uint64 {
	return xxhash.Sum64String(key)
}
