// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ordered

import (
	"errors"
	"fmt"
)

var ErrDuplicateKey = errors.New("duplicate key")

// Map is a duplicate-free mapping that remembers insertion order.
type Map[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// New builds a Map from values, keyed by key(v), preserving slice order.
func New[K comparable, V any](values []V, key func(V) K) (*Map[K, V], error) {
	m := &Map[K, V]{
		keys:   make([]K, 0, len(values)),
		values: make(map[K]V, len(values)),
	}
	for _, v := range values {
		k := key(v)
		if _, exists := m.values[k]; exists {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
		}
		m.keys = append(m.keys, k)
		m.values[k] = v
	}
	return m, nil
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in insertion order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.values[k]
	}
	return out
}

func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *Map[K, V]) Contains(k K) bool {
	_, ok := m.values[k]
	return ok
}

// At returns the key and value at position i.
func (m *Map[K, V]) At(i int) (K, V) {
	k := m.keys[i]
	return k, m.values[k]
}

// Set replaces the value stored under an existing key.
// It reports false and does nothing if the key is absent.
func (m *Map[K, V]) Set(k K, v V) bool {
	if _, ok := m.values[k]; !ok {
		return false
	}
	m.values[k] = v
	return true
}

// SameKeys reports whether both maps hold the same keys in the same order.
func (m *Map[K, V]) SameKeys(other *Map[K, V]) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k {
			return false
		}
	}
	return true
}
