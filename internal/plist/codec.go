package plist

import (
	"fmt"
	"strconv"

	"github.com/mosen/salt-osx/internal/model"
)

// ToNative converts a declared value into its property-list node form.
// Scalar tags map directly; lists convert element-wise. Privilege sets have
// no generic plist form (the remote management domain encodes them to a mask
// first) and are rejected here.
func ToNative(v model.Value) (Node, error) {
	switch v.Tag {
	case model.TagBool:
		return Bool(v.Bool), nil
	case model.TagInt:
		return Integer(v.Int), nil
	case model.TagFloat:
		return Real(v.Float), nil
	case model.TagString:
		return String(v.Str), nil
	case model.TagList:
		out := make(Array, len(v.List))
		for i, item := range v.List {
			node, err := ToNative(item)
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	case model.TagPrivileges:
		return nil, &UnknownValueError{
			Tag:     string(v.Tag),
			Raw:     v.String(),
			Message: "privilege sets must be encoded to a mask by their domain",
		}
	}
	return nil, &UnknownValueError{Tag: string(v.Tag), Raw: v.String(), Message: "unsupported type tag"}
}

// FromNative infers the declared type of a node from its runtime type.
// Dictionaries have no declared form: nested values are managed through key
// paths, so a dictionary here means the declaration points one level too
// high.
func FromNative(n Node) (model.Value, error) {
	switch t := n.(type) {
	case Bool:
		return model.BoolValue(bool(t)), nil
	case Integer:
		return model.IntValue(int64(t)), nil
	case Real:
		return model.FloatValue(float64(t)), nil
	case String:
		return model.StringValue(string(t)), nil
	case Array:
		items := make([]model.Value, len(t))
		for i, elem := range t {
			v, err := FromNative(elem)
			if err != nil {
				return model.Value{}, err
			}
			items[i] = v
		}
		return model.ListValue(items...), nil
	case *Dict:
		return model.Value{}, &TypeMismatchError{
			Message: "dictionary values are managed through key paths, not as a single declared value",
		}
	}
	return model.Value{}, &TypeMismatchError{Message: fmt.Sprintf("unsupported node type %T", n)}
}

// CoerceString converts a raw string into a declared value of the given tag.
// This is the entry point for CLI single-key writes, where every argument
// arrives as text alongside an explicit type tag.
func CoerceString(tag model.Tag, raw string) (model.Value, error) {
	switch tag {
	case model.TagBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return model.Value{}, &UnknownValueError{Tag: string(tag), Raw: raw, Message: "not a boolean"}
		}
		v := model.BoolValue(b)
		v.Explicit = true
		return v, nil
	case model.TagInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return model.Value{}, &UnknownValueError{Tag: string(tag), Raw: raw, Message: "not an integer"}
		}
		v := model.IntValue(i)
		v.Explicit = true
		return v, nil
	case model.TagFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Value{}, &UnknownValueError{Tag: string(tag), Raw: raw, Message: "not a number"}
		}
		v := model.FloatValue(f)
		v.Explicit = true
		return v, nil
	case model.TagString:
		v := model.StringValue(raw)
		v.Explicit = true
		return v, nil
	}
	return model.Value{}, &UnknownValueError{Tag: string(tag), Raw: raw, Message: "unsupported type tag for single-key writes"}
}
