// Package plist models property-list documents as typed node trees and
// provides the codec between declared values and native nodes, key-path
// read/write/delete operations, and a file-backed store.
package plist

// Node is one value in a property-list tree: a scalar, an ordered array, or
// an ordered key-unique dictionary.
type Node interface {
	Equal(other Node) bool
	node()
}

// Bool is a boolean scalar node.
type Bool bool

// Integer is an integer scalar node.
type Integer int64

// Real is a floating point scalar node.
type Real float64

// String is a string scalar node.
type String string

// Array is an ordered sequence of nodes.
type Array []Node

// Dict is a mapping from string keys to nodes. Key order is preserved as
// insertion order and keys are unique.
type Dict struct {
	keys  []string
	items map[string]Node
}

func (Bool) node()    {}
func (Integer) node() {}
func (Real) node()    {}
func (String) node()  {}
func (Array) node()   {}
func (*Dict) node()   {}

// Equal reports scalar equality with no cross-type coercion.
func (b Bool) Equal(other Node) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

func (i Integer) Equal(other Node) bool {
	o, ok := other.(Integer)
	return ok && i == o
}

func (r Real) Equal(other Node) bool {
	o, ok := other.(Real)
	return ok && r == o
}

func (s String) Equal(other Node) bool {
	o, ok := other.(String)
	return ok && s == o
}

// Equal compares arrays element-wise in order.
func (a Array) Equal(other Node) bool {
	o, ok := other.(Array)
	if !ok || len(a) != len(o) {
		return false
	}
	for i := range a {
		if !a[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// NewDict returns an empty dictionary node.
func NewDict() *Dict {
	return &Dict{items: make(map[string]Node)}
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	return len(d.keys)
}

// Keys returns the dictionary keys in insertion order.
func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Get returns the node stored under key.
func (d *Dict) Get(key string) (Node, bool) {
	n, ok := d.items[key]
	return n, ok
}

// Set stores value under key, replacing any existing value. A new key is
// appended to the insertion order.
func (d *Dict) Set(key string, value Node) {
	if _, exists := d.items[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.items[key] = value
}

// Delete removes key and reports whether it was present.
func (d *Dict) Delete(key string) bool {
	if _, exists := d.items[key]; !exists {
		return false
	}
	delete(d.items, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

// Equal compares dictionaries by key set and per-key values. Key order does
// not participate: two dictionaries with the same entries are equal.
func (d *Dict) Equal(other Node) bool {
	o, ok := other.(*Dict)
	if !ok || d.Len() != o.Len() {
		return false
	}
	for key, value := range d.items {
		ov, exists := o.items[key]
		if !exists || !value.Equal(ov) {
			return false
		}
	}
	return true
}
