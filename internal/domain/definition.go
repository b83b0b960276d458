package domain

import (
	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/plist"
)

// Codec translates one option between its declared value and its native
// property-list node representation.
type Codec interface {
	// Normalize canonicalizes a declared value so that equal declarations
	// always compare equal, validating it against the option's type.
	Normalize(v model.Value) (model.Value, error)

	// Encode converts a normalized declared value to its native node.
	Encode(v model.Value) (plist.Node, error)

	// Decode converts a native node back to its canonical declared value.
	Decode(n plist.Node) (model.Value, error)
}

// OptionSpec is one entry in a domain's vocabulary. Tag is the declared type
// the option expects; an empty Tag means the option accepts any declared
// type (open vocabularies).
//
// CreateOnly marks an option the native store cannot report back. It is
// applied as an initial value when the entity is created and excluded from
// diffing of an existing entity, so declaring it never re-applies on a
// converged system.
type OptionSpec struct {
	Name       string
	Tag        model.Tag
	Codec      Codec
	CreateOnly bool
}

// Definition describes a managed settings domain: its name, option
// vocabulary, and entity naming rules. Domains are a closed set assembled at
// startup, dispatched through the Registry.
type Definition struct {
	Name string

	// Options is the closed vocabulary in canonical order. Ignored when
	// Open is set.
	Options []OptionSpec

	// Open marks a domain whose vocabulary is unbounded (the generic
	// property-list domain, where every key path is a legal option).
	Open bool

	// EntityCheck validates an entity identifier before convergence.
	// Nil means every identifier is acceptable.
	EntityCheck func(entityID string) error
}

// Resolve returns the spec for an option name. For closed vocabularies an
// unrecognized name fails with UnknownOptionError.
func (d *Definition) Resolve(option string) (OptionSpec, error) {
	if d.Open {
		if option == "" {
			return OptionSpec{}, &UnknownOptionError{Domain: d.Name, Option: option}
		}
		return OptionSpec{Name: option, Codec: anyCodec{}}, nil
	}
	for _, spec := range d.Options {
		if spec.Name == option {
			return spec, nil
		}
	}
	return OptionSpec{}, &UnknownOptionError{Domain: d.Name, Option: option}
}

// ValidateEntity applies the domain's entity naming rule.
func (d *Definition) ValidateEntity(entityID string) error {
	if d.EntityCheck == nil {
		return nil
	}
	return d.EntityCheck(entityID)
}

// Scalar builds a vocabulary entry for a plainly typed option using the
// default scalar codec.
func Scalar(name string, tag model.Tag) OptionSpec {
	return OptionSpec{Name: name, Tag: tag, Codec: scalarCodec{tag: tag}}
}

// WithCodec builds a vocabulary entry with a domain-specific codec.
func WithCodec(name string, tag model.Tag, codec Codec) OptionSpec {
	return OptionSpec{Name: name, Tag: tag, Codec: codec}
}

// ScalarCreateOnly builds a vocabulary entry for an option that only takes
// effect when the entity is created.
func ScalarCreateOnly(name string, tag model.Tag) OptionSpec {
	return OptionSpec{Name: name, Tag: tag, Codec: scalarCodec{tag: tag}, CreateOnly: true}
}

// scalarCodec is the default codec: the declared value must already carry
// the option's tag, or be losslessly convertible to it when the declaration
// did not name a tag explicitly.
type scalarCodec struct {
	tag model.Tag
}

func (c scalarCodec) Normalize(v model.Value) (model.Value, error) {
	if v.Tag == c.tag {
		return v, nil
	}
	if !v.Explicit {
		if converted, ok := v.ConvertTo(c.tag); ok {
			return converted, nil
		}
	}
	return model.Value{}, &plist.TypeMismatchError{
		Message: "declared " + string(v.Tag) + " where " + string(c.tag) + " is expected",
	}
}

func (c scalarCodec) Encode(v model.Value) (plist.Node, error) {
	return plist.ToNative(v)
}

func (c scalarCodec) Decode(n plist.Node) (model.Value, error) {
	return plist.FromNative(n)
}

// anyCodec serves open vocabularies: no expected tag, straight translation.
type anyCodec struct{}

func (anyCodec) Normalize(v model.Value) (model.Value, error) { return v, nil }
func (anyCodec) Encode(v model.Value) (plist.Node, error)     { return plist.ToNative(v) }
func (anyCodec) Decode(n plist.Node) (model.Value, error)     { return plist.FromNative(n) }
