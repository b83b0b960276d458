package plist

// ReadKey returns the node at the given key path. It fails with
// KeyNotFoundError when any segment is absent and TypeMismatchError when an
// intermediate segment resolves to something other than a dictionary.
func ReadKey(root *Dict, path []string) (Node, error) {
	if len(path) == 0 {
		return nil, &KeyNotFoundError{Path: path}
	}

	current := root
	for i, segment := range path {
		child, ok := current.Get(segment)
		if !ok {
			return nil, &KeyNotFoundError{Path: path[:i+1]}
		}
		if i == len(path)-1 {
			return child, nil
		}
		dict, ok := child.(*Dict)
		if !ok {
			return nil, &TypeMismatchError{
				Path:    path[:i+1],
				Message: "intermediate key is not a dictionary",
			}
		}
		current = dict
	}
	return nil, &KeyNotFoundError{Path: path}
}

// WriteKey sets the terminal node at the given key path, creating
// intermediate dictionaries along the way. An existing scalar is never
// implicitly replaced by a dictionary; that fails with TypeMismatchError.
// The mutation is all-or-nothing: the path is validated in full before
// anything is created, so a failed write leaves the tree untouched.
func WriteKey(root *Dict, path []string, value Node) error {
	if len(path) == 0 {
		return &KeyNotFoundError{Path: path}
	}

	// Validation pass, no mutation.
	current := root
	for i := 0; i < len(path)-1; i++ {
		child, ok := current.Get(path[i])
		if !ok {
			// Everything below here is missing and will be created.
			break
		}
		dict, ok := child.(*Dict)
		if !ok {
			return &TypeMismatchError{
				Path:    path[:i+1],
				Message: "refusing to replace a scalar with a dictionary",
			}
		}
		current = dict
	}

	// Mutation pass.
	current = root
	for i := 0; i < len(path)-1; i++ {
		child, ok := current.Get(path[i])
		if !ok {
			child = NewDict()
			current.Set(path[i], child)
		}
		current = child.(*Dict)
	}
	current.Set(path[len(path)-1], value)
	return nil
}

// DeleteKey removes the terminal node at the given key path. It fails with
// KeyNotFoundError when the key (or any intermediate segment) is absent.
// Intermediate dictionaries left empty by the removal are kept: other tools
// may share the same file and an empty dictionary is not ours to clean up.
func DeleteKey(root *Dict, path []string) error {
	if len(path) == 0 {
		return &KeyNotFoundError{Path: path}
	}

	current := root
	for i := 0; i < len(path)-1; i++ {
		child, ok := current.Get(path[i])
		if !ok {
			return &KeyNotFoundError{Path: path[:i+1]}
		}
		dict, ok := child.(*Dict)
		if !ok {
			return &TypeMismatchError{
				Path:    path[:i+1],
				Message: "intermediate key is not a dictionary",
			}
		}
		current = dict
	}

	if !current.Delete(path[len(path)-1]) {
		return &KeyNotFoundError{Path: path}
	}
	return nil
}
