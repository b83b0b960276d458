package plist

import (
	"fmt"
	"strings"
)

// KeyNotFoundError reports a key path segment that does not exist.
type KeyNotFoundError struct {
	Path []string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", JoinKeyPath(e.Path))
}

// TypeMismatchError reports a node whose runtime type cannot satisfy the
// requested operation, for example a scalar where a dictionary is needed.
type TypeMismatchError struct {
	Path    []string
	Message string
}

func (e *TypeMismatchError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("type mismatch at %q: %s", JoinKeyPath(e.Path), e.Message)
	}
	return "type mismatch: " + e.Message
}

// UnknownValueError reports a declared value that cannot be coerced to its
// declared type tag.
type UnknownValueError struct {
	Tag     string
	Raw     string
	Message string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("cannot coerce %q to %s: %s", e.Raw, e.Tag, e.Message)
}

// SplitKeyPath parses the colon-separated key path notation used throughout
// the CLI and the prefs domain, e.g. "path:to:name".
func SplitKeyPath(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ":")
}

// JoinKeyPath renders a key path in the colon notation.
func JoinKeyPath(path []string) string {
	return strings.Join(path, ":")
}
