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

// Package probemap is a Go implementation of a hash table that uses open
// addressing with linear probing. If you're not familiar with
// open-addressing see https://en.wikipedia.org/wiki/Open_addressing.
//
// # Layout
//
// All entries live directly in a single backing array of slots; there are no
// external chains. Each slot is in one of three states: empty (never
// written, or reset by Clear), occupied (holds a live key/value pair), or a
// tombstone (previously occupied, logically deleted). Tombstones are what
// make deletion compatible with open addressing: marking a deleted slot
// empty would terminate later probe sequences early and make keys past it
// unreachable, so the slot instead stays "full for probing purposes" until
// an insert reuses it or a resize drops it.
//
// # Probing
//
// To find a key we compute hash(key), take hash mod capacity as the
// starting index, and walk forward one slot at a time with wraparound. The
// walk is bounded by capacity steps so it terminates even on a table with
// no empty slots. While walking we remember the first tombstone seen: if
// the key turns out to be absent, that tombstone is the preferred insertion
// point, which keeps probe chains from growing through deleted slots. This
// single search primitive backs Get, Contains, Put, and Delete.
//
// # Growth
//
// The load factor counts occupied and tombstoned slots against capacity.
// When an insert finds the load factor at or above 0.75 the table doubles:
// a new slot array is allocated and every occupied entry of the old array
// is reinserted in storage order, discarding tombstones. Rehashing is the
// only operation that reclaims tombstoned slots wholesale; sustained
// put/delete churn on a table that never grows degrades probe-chain length
// until the next resize. Capacity never shrinks.
//
// A Map is NOT goroutine-safe. See SyncMap for a locked wrapper.
package probemap

import (
	"fmt"
	"strings"
)

const (
	debug = false

	// defaultCapacity is the smallest slot array we ever allocate. Doubling
	// from it keeps capacity a power of two.
	defaultCapacity = 16
	// maxLoadFactor is the (size+tombstones)/capacity threshold at which an
	// insert grows the table before proceeding.
	maxLoadFactor = 0.75
)

// slotState tags the lifecycle state of a slot: empty -> occupied ->
// tombstone -> occupied -> ...; Clear forces any state back to empty.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotTombstone
	slotOccupied
)

// slot is one cell of the backing array. Key and value are only meaningful
// in the occupied state; Delete zeroes them so the map does not pin caller
// memory through a tombstone.
type slot[K comparable, V any] struct {
	state slotState
	key   K
	value V
}

// Map is an unordered map from keys to values with Put, Get, Delete, and
// All operations, built on open addressing with linear probing and
// tombstone deletion. By default a Map[K,V] hashes with a per-map seeded
// maphash; a different hash function can be specified using the WithHash
// option.
//
// A Map is NOT goroutine-safe. The map exclusively owns its slot storage:
// no value returned or yielded by a Map method refers into the slot array,
// so callers never hold references invalidated by a later mutation.
type Map[K comparable, V any] struct {
	hash      HashFn[K]
	allocator Allocator[K, V]
	// slots is capacity in length. Replaced wholesale on resize.
	slots []slot[K, V]
	// The number of occupied slots (i.e. the number of elements in the map).
	size int
	// The number of tombstoned slots. size+tombstones <= len(slots) always.
	tombstones int
}

// New constructs a new Map with the specified initial capacity. Capacities
// below the default minimum (16) are rounded up to it. The zero value for a
// Map is not usable.
func New[K comparable, V any](initialCapacity int, options ...Option[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		hash:      defaultHasher[K](),
		allocator: defaultAllocator[K, V]{},
	}

	for _, op := range options {
		op.apply(m)
	}

	if initialCapacity < defaultCapacity {
		initialCapacity = defaultCapacity
	}
	m.slots = m.allocator.AllocSlots(initialCapacity)

	m.checkInvariants()
	return m
}

// Close closes the map, releasing slot memory back to its configured
// allocator. It is unnecessary to close a map using the default allocator.
// It is invalid to use a Map after it has been closed, though Close itself
// is idempotent.
func (m *Map[K, V]) Close() {
	if m.slots != nil {
		m.allocator.FreeSlots(m.slots)
		m.slots = nil
		m.size = 0
		m.tombstones = 0
	}
	m.allocator = nil
}

// Put inserts an entry into the map, overwriting an existing value if an
// entry with the same key already exists. It returns the previous value
// and true if the key was present.
func (m *Map[K, V]) Put(key K, value V) (prev V, replaced bool) {
	// Growing happens before probing so that the insertion point we find is
	// valid in the post-growth slot array.
	if m.loadFactor() >= maxLoadFactor {
		m.resize(2 * len(m.slots))
	}

	i, found := m.findSlot(key)
	if found {
		s := &m.slots[i]
		prev = s.value
		s.value = value
		m.checkInvariants()
		return prev, true
	}

	if m.slots[i].state == slotTombstone {
		m.tombstones--
	}
	m.slots[i] = slot[K, V]{state: slotOccupied, key: key, value: value}
	m.size++
	m.checkInvariants()
	return prev, false
}

// Get retrieves the value from the map for the specified key, returning
// ok=false if the key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	i, found := m.findSlot(key)
	if found {
		return m.slots[i].value, true
	}
	return value, false
}

// Contains reports whether the map holds an entry for the specified key.
func (m *Map[K, V]) Contains(key K) bool {
	_, found := m.findSlot(key)
	return found
}

// Delete deletes the entry corresponding to the specified key from the
// map, returning the removed value and true if the key was present. It is
// a noop to delete a non-existent key. Delete never shrinks the table and
// never compacts tombstones.
func (m *Map[K, V]) Delete(key K) (removed V, ok bool) {
	i, found := m.findSlot(key)
	if !found {
		return removed, false
	}

	removed = m.slots[i].value
	m.slots[i] = slot[K, V]{state: slotTombstone}
	m.size--
	m.tombstones++
	m.checkInvariants()
	return removed, true
}

// Clear removes all entries from the map, resetting every slot to empty.
// Capacity is unchanged.
func (m *Map[K, V]) Clear() {
	clear(m.slots)
	m.size = 0
	m.tombstones = 0
	m.checkInvariants()
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.size
}

// Empty reports whether the map contains no entries.
func (m *Map[K, V]) Empty() bool {
	return m.size == 0
}

// Capacity returns the current length of the backing slot array.
func (m *Map[K, V]) Capacity() int {
	return len(m.slots)
}

// All calls yield sequentially for each key and value present in the map,
// in slot storage order. If yield returns false, iteration stops. The
// iteration order is unspecified and changes across resizes. The map must
// not be mutated during iteration.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	for i := range m.slots {
		s := &m.slots[i]
		if s.state == slotOccupied {
			if !yield(s.key, s.value) {
				return
			}
		}
	}
}

// Keys returns the keys of the map in slot storage order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	m.All(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns the values of the map in slot storage order.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.size)
	m.All(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

func (m *Map[K, V]) loadFactor() float64 {
	return float64(m.size+m.tombstones) / float64(len(m.slots))
}

// findSlot is the probe primitive shared by every operation. It returns
// (i, true) if key is at slot i, and otherwise (i, false) where i is the
// insertion point for key: the first tombstone encountered on the probe
// path if any, else the empty slot that terminated the walk. The walk is
// bounded by capacity steps; on a table with no empty slots it returns the
// first tombstone if one exists and slot 0 as a last resort.
func (m *Map[K, V]) findSlot(key K) (int, bool) {
	capacity := len(m.slots)
	index := int(m.hash(key) % uint64(capacity))
	firstTombstone := -1

	if debug {
		fmt.Printf("probe(%v): start=%d capacity=%d\n", key, index, capacity)
	}

	for n := 0; n < capacity; n++ {
		s := &m.slots[index]
		switch s.state {
		case slotEmpty:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}
			return index, false

		case slotTombstone:
			if firstTombstone < 0 {
				firstTombstone = index
			}

		case slotOccupied:
			if s.key == key {
				return index, true
			}
		}

		index++
		if index == capacity {
			index = 0
		}
	}

	// Saturated: no empty slot anywhere. Only reachable when every slot is
	// occupied or tombstoned, which the load-factor gate prevents for maps
	// mutated solely through Put.
	if firstTombstone >= 0 {
		return firstTombstone, false
	}
	return 0, false
}

// resize replaces the backing array with one of newCapacity slots and
// reinserts every occupied entry of the old array in storage order.
// Tombstones are dropped, which is the only wholesale reclamation the map
// performs. Reinserting size elements into double the capacity lands the
// load factor at or below 0.5, so resize can never recurse through Put.
func (m *Map[K, V]) resize(newCapacity int) {
	oldSlots := m.slots

	if debug {
		fmt.Printf("resize: capacity=%d->%d size=%d tombstones=%d\n",
			len(oldSlots), newCapacity, m.size, m.tombstones)
	}

	m.slots = m.allocator.AllocSlots(newCapacity)
	m.size = 0
	m.tombstones = 0

	for i := range oldSlots {
		if oldSlots[i].state == slotOccupied {
			m.Put(oldSlots[i].key, oldSlots[i].value)
		}
	}

	m.allocator.FreeSlots(oldSlots)
	m.checkInvariants()
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		var size, tombstones int
		for i := range m.slots {
			switch m.slots[i].state {
			case slotOccupied:
				size++
				if j, found := m.findSlot(m.slots[i].key); !found || j != i {
					panic(fmt.Sprintf("invariant failed: slot(%d): %v not reachable by probing (found=%t, j=%d)\n%s",
						i, m.slots[i].key, found, j, m.debugString()))
				}
			case slotTombstone:
				tombstones++
			}
		}

		if size != m.size {
			panic(fmt.Sprintf("invariant failed: found %d occupied slots, but size is %d\n%s",
				size, m.size, m.debugString()))
		}
		if tombstones != m.tombstones {
			panic(fmt.Sprintf("invariant failed: found %d tombstoned slots, but tombstones is %d\n%s",
				tombstones, m.tombstones, m.debugString()))
		}
		if m.size+m.tombstones > len(m.slots) {
			panic(fmt.Sprintf("invariant failed: size=%d + tombstones=%d exceeds capacity=%d\n%s",
				m.size, m.tombstones, len(m.slots), m.debugString()))
		}
	}
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  size=%d  tombstones=%d\n",
		len(m.slots), m.size, m.tombstones)
	for i := range m.slots {
		switch s := &m.slots[i]; s.state {
		case slotEmpty:
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
		case slotTombstone:
			fmt.Fprintf(&buf, "  %4d: tombstone\n", i)
		case slotOccupied:
			fmt.Fprintf(&buf, "  %4d: %v -> %v [home=%d]\n",
				i, s.key, s.value, int(m.hash(s.key)%uint64(len(m.slots))))
		}
	}
	return buf.String()
}
