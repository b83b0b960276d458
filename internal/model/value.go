package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Tag identifies the declared type of a managed value.
type Tag string

const (
	TagBool   Tag = "bool"
	TagInt    Tag = "int"
	TagFloat  Tag = "float"
	TagString Tag = "string"
	TagList   Tag = "list"
	// TagPrivileges marks a symbolic privilege set, used only by the
	// remote management domain. It normalizes to a signed 32-bit mask.
	TagPrivileges Tag = "privileges"
)

// IsValid reports whether the tag names a supported declared type.
func (t Tag) IsValid() bool {
	switch t {
	case TagBool, TagInt, TagFloat, TagString, TagList, TagPrivileges:
		return true
	}
	return false
}

// Value is the tagged union representing one declared or observed setting
// value. Exactly one variant field is meaningful, selected by Tag.
//
// Explicit records whether the declaration named the tag itself. An inferred
// tag yields to the native value's tag during diffing when the two can be
// converted losslessly; an explicit tag never does.
type Value struct {
	Tag      Tag
	Explicit bool

	Bool  bool
	Int   int64
	Float float64
	Str   string
	List  []Value

	// Privilege set variant. Residual carries native mask bits that have
	// no symbolic name so they survive a round trip untouched.
	Names    []string
	Residual int32
}

// BoolValue constructs a bool-tagged value.
func BoolValue(v bool) Value { return Value{Tag: TagBool, Bool: v} }

// IntValue constructs an int-tagged value.
func IntValue(v int64) Value { return Value{Tag: TagInt, Int: v} }

// FloatValue constructs a float-tagged value.
func FloatValue(v float64) Value { return Value{Tag: TagFloat, Float: v} }

// StringValue constructs a string-tagged value.
func StringValue(v string) Value { return Value{Tag: TagString, Str: v} }

// ListValue constructs a list-tagged value.
func ListValue(items ...Value) Value { return Value{Tag: TagList, List: items} }

// PrivilegesValue constructs a privilege-set value.
func PrivilegesValue(names []string, residual int32) Value {
	return Value{Tag: TagPrivileges, Names: names, Residual: residual}
}

// Equal reports whether two values are identical under the equality rules of
// their tag. Values of different tags are never equal; cross-tag coercion is
// the caller's responsibility and must happen before comparison.
func (v Value) Equal(other Value) bool {
	if v.Tag != other.Tag {
		return false
	}
	switch v.Tag {
	case TagBool:
		return v.Bool == other.Bool
	case TagInt:
		return v.Int == other.Int
	case TagFloat:
		return v.Float == other.Float
	case TagString:
		return v.Str == other.Str
	case TagList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case TagPrivileges:
		if v.Residual != other.Residual {
			return false
		}
		return equalNameSets(v.Names, other.Names)
	}
	return false
}

// ConvertTo returns a copy of the value re-tagged as target when the
// conversion is lossless. Only numeric int/float conversions qualify;
// everything else (including bool/int) is rejected so that a declared bool
// never silently compares against a native int.
func (v Value) ConvertTo(target Tag) (Value, bool) {
	if v.Tag == target {
		return v, true
	}
	switch {
	case v.Tag == TagInt && target == TagFloat:
		out := FloatValue(float64(v.Int))
		out.Explicit = v.Explicit
		return out, true
	case v.Tag == TagFloat && target == TagInt:
		if v.Float != math.Trunc(v.Float) {
			return Value{}, false
		}
		out := IntValue(int64(v.Float))
		out.Explicit = v.Explicit
		return out, true
	}
	return Value{}, false
}

// String renders the value for change reporting and logs.
func (v Value) String() string {
	switch v.Tag {
	case TagBool:
		return strconv.FormatBool(v.Bool)
	case TagInt:
		return strconv.FormatInt(v.Int, 10)
	case TagFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case TagString:
		return v.Str
	case TagList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TagPrivileges:
		rendered := strings.Join(v.Names, ",")
		if v.Residual != 0 {
			rendered = fmt.Sprintf("%s (residual %#x)", rendered, uint32(v.Residual))
		}
		return rendered
	}
	return ""
}

func equalNameSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
