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

import "sync"

// SyncMap wraps a Map with a mutex taken around every operation, making it
// safe for concurrent use by multiple goroutines. There is no finer-grained
// locking: every operation serializes on the one lock, and a resize blocks
// all other callers for its duration. Callers that can arrange external
// synchronization should prefer the bare Map.
type SyncMap[K comparable, V any] struct {
	mu sync.Mutex
	m  *Map[K, V]
}

// NewSync constructs a new SyncMap with the specified initial capacity.
func NewSync[K comparable, V any](initialCapacity int, options ...Option[K, V]) *SyncMap[K, V] {
	return &SyncMap[K, V]{m: New(initialCapacity, options...)}
}

// Put inserts an entry into the map, overwriting an existing value if an
// entry with the same key already exists.
func (s *SyncMap[K, V]) Put(key K, value V) (prev V, replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Put(key, value)
}

// Get retrieves the value for the specified key.
func (s *SyncMap[K, V]) Get(key K) (value V, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Get(key)
}

// Contains reports whether the map holds an entry for the specified key.
func (s *SyncMap[K, V]) Contains(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Contains(key)
}

// Delete deletes the entry corresponding to the specified key.
func (s *SyncMap[K, V]) Delete(key K) (removed V, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Delete(key)
}

// Clear removes all entries from the map.
func (s *SyncMap[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Clear()
}

// Len returns the number of entries in the map.
func (s *SyncMap[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Len()
}

// Empty reports whether the map contains no entries.
func (s *SyncMap[K, V]) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Empty()
}

// All calls yield for each entry while holding the lock. The callback must
// not call back into the SyncMap or it will deadlock.
func (s *SyncMap[K, V]) All(yield func(key K, value V) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.All(yield)
}

// Stats returns the current slot accounting for the map.
func (s *SyncMap[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Stats()
}
