package dataprovider

import (
	"fmt"
	"strings"
)

// KeyMap is an insertion-ordered mapping from key to Item. Unlike a
// plain Go map it accepts composite (slice-shaped) keys, matching them
// by element-wise equality rather than identity.
type KeyMap struct {
	index map[string]int
	keys  []any
	items []Item
}

// NewKeyMap creates an empty KeyMap.
func NewKeyMap() *KeyMap {
	return &KeyMap{index: make(map[string]int)}
}

// Set stores item under key, replacing any existing entry. Insertion
// order is preserved; replacing keeps the original position.
func (m *KeyMap) Set(key any, item Item) {
	if i, ok := m.index[canonicalKey(key)]; ok {
		m.items[i] = item
		return
	}
	m.index[canonicalKey(key)] = len(m.keys)
	m.keys = append(m.keys, key)
	m.items = append(m.items, item)
}

// Get returns the item stored under key.
func (m *KeyMap) Get(key any) (Item, bool) {
	i, ok := m.index[canonicalKey(key)]
	if !ok {
		return Item{}, false
	}
	return m.items[i], true
}

// Has reports whether key is present.
func (m *KeyMap) Has(key any) bool {
	_, ok := m.index[canonicalKey(key)]
	return ok
}

// Delete removes the entry stored under key.
func (m *KeyMap) Delete(key any) bool {
	ck := canonicalKey(key)
	i, ok := m.index[ck]
	if !ok {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.items = append(m.items[:i], m.items[i+1:]...)
	delete(m.index, ck)
	for k, v := range m.index {
		if v > i {
			m.index[k] = v - 1
		}
	}
	return true
}

// Len returns the number of entries.
func (m *KeyMap) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *KeyMap) Keys() []any {
	out := make([]any, len(m.keys))
	copy(out, m.keys)
	return out
}

// Items returns the items in insertion order.
func (m *KeyMap) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *KeyMap) Range(fn func(key any, item Item) bool) {
	for i, key := range m.keys {
		if !fn(key, m.items[i]) {
			return
		}
	}
}

// KeyEqual reports whether two keys identify the same item. Composite
// keys compare element-wise in order.
func KeyEqual(a, b any) bool {
	return canonicalKey(a) == canonicalKey(b)
}

// canonicalKey encodes a key into a deterministic string form so that
// composite keys can index a Go map. Scalars encode with their dynamic
// type to keep 1 and "1" distinct.
func canonicalKey(key any) string {
	switch v := key.(type) {
	case nil:
		return "<nil>"
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = canonicalKey(elem)
		}
		return "[" + strings.Join(parts, "\x1f") + "]"
	case string:
		return "s\x1e" + v
	default:
		return fmt.Sprintf("%T\x1e%v", v, v)
	}
}
