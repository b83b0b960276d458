package plist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	howett "howett.net/plist"
)

// Store is a property-list file held as a node tree. Loading a missing file
// yields an empty dictionary; the file is only created once Save runs, so
// read-only operations never touch the filesystem.
type Store struct {
	path   string
	root   *Dict
	exists bool
}

// LoadStore reads the property list at path into a Store.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Store{path: path, root: NewDict()}, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if _, err := howett.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root, err := dictFromRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Store{path: path, root: root, exists: true}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Root returns the root dictionary for key-path operations.
func (s *Store) Root() *Dict { return s.root }

// Exists reports whether the backing file existed at load time.
func (s *Store) Exists() bool { return s.exists }

// Save writes the tree back to disk as an XML property list. An existing
// file keeps its permission bits; new files are created 0644.
func (s *Store) Save() error {
	data, err := howett.MarshalIndent(rawFromNode(s.root), howett.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", s.path, err)
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(s.path, data, mode); err != nil {
		return err
	}
	s.exists = true
	return nil
}

// Remove deletes the backing file and resets the tree.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.root = NewDict()
	s.exists = false
	return nil
}

// dictFromRaw converts a decoded plist dictionary. Keys are ordered
// lexically: the serialization library exposes dictionaries as Go maps, so
// file order is not observable and a sorted order keeps loads deterministic.
func dictFromRaw(raw map[string]interface{}) (*Dict, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := NewDict()
	for _, k := range keys {
		node, err := nodeFromRaw(raw[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		d.Set(k, node)
	}
	return d, nil
}

func nodeFromRaw(v interface{}) (Node, error) {
	switch t := v.(type) {
	case bool:
		return Bool(t), nil
	case int64:
		return Integer(t), nil
	case uint64:
		return Integer(int64(t)), nil
	case float32:
		return Real(float64(t)), nil
	case float64:
		return Real(t), nil
	case string:
		return String(t), nil
	case []interface{}:
		out := make(Array, len(t))
		for i, elem := range t {
			node, err := nodeFromRaw(elem)
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	case map[string]interface{}:
		return dictFromRaw(t)
	}
	return nil, &TypeMismatchError{Message: fmt.Sprintf("unsupported plist value type %T", v)}
}

func rawFromNode(n Node) interface{} {
	switch t := n.(type) {
	case Bool:
		return bool(t)
	case Integer:
		return int64(t)
	case Real:
		return float64(t)
	case String:
		return string(t)
	case Array:
		out := make([]interface{}, len(t))
		for i, elem := range t {
			out[i] = rawFromNode(elem)
		}
		return out
	case *Dict:
		out := make(map[string]interface{}, t.Len())
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			out[k] = rawFromNode(child)
		}
		return out
	}
	return nil
}
