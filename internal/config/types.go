package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mosen/salt-osx/internal/model"
)

// Presence selects how an entity's existence is treated.
type Presence string

const (
	// PresenceManaged converges the listed options and touches nothing
	// else. This is the default and must be an explicit mode, not
	// inferred from the option count: an intentionally empty option list
	// under managed presence is a valid no-op declaration.
	PresenceManaged Presence = "managed"
	// PresencePresent ensures the entity exists, creating it with the
	// declared options as initial values when missing.
	PresencePresent Presence = "present"
	// PresenceAbsent removes the whole entity.
	PresenceAbsent Presence = "absent"
)

// Document is the parsed desired-state declaration.
type Document struct {
	Version  string   `yaml:"version" validate:"required"`
	Name     string   `yaml:"name,omitempty" validate:"omitempty,max=100"`
	Entities []Entity `yaml:"entities" validate:"required,min=1,dive"`
}

// Entity is the normalized declaration for one managed target: the State
// Descriptor of the convergence engine.
type Entity struct {
	ID       string   `yaml:"id" validate:"required"`
	Domain   string   `yaml:"domain" validate:"required,domain_name"`
	Presence Presence `yaml:"presence" validate:"required,oneof=managed present absent"`
	Options  []Option `yaml:"options"`
}

// Option is one (name, declared value) pair. Declaration order is preserved
// for deterministic change reporting.
type Option struct {
	Name  string
	Value model.Value
}

// UnmarshalYAML decodes an entity, defaulting presence to managed and
// decoding options through the order-preserving option decoder.
func (e *Entity) UnmarshalYAML(value *yaml.Node) error {
	type baseEntity struct {
		ID       string    `yaml:"id"`
		Domain   string    `yaml:"domain"`
		Presence *Presence `yaml:"presence"`
		Options  yaml.Node `yaml:"options"`
	}

	var base baseEntity
	if err := value.Decode(&base); err != nil {
		return err
	}

	e.ID = base.ID
	e.Domain = base.Domain
	if base.Presence != nil {
		e.Presence = *base.Presence
	} else {
		e.Presence = PresenceManaged
	}

	e.Options = nil
	if base.Options.Kind == 0 || base.Options.Tag == "!!null" {
		return nil
	}
	if base.Options.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: options must be a sequence", base.Options.Line)
	}
	for _, item := range base.Options.Content {
		opt, err := decodeOption(item)
		if err != nil {
			return err
		}
		e.Options = append(e.Options, opt)
	}
	return nil
}

func decodeOption(node *yaml.Node) (Option, error) {
	type rawOption struct {
		Name  string    `yaml:"name"`
		Type  string    `yaml:"type"`
		Value yaml.Node `yaml:"value"`
	}

	var raw rawOption
	if err := node.Decode(&raw); err != nil {
		return Option{}, err
	}
	if raw.Name == "" {
		return Option{}, fmt.Errorf("line %d: option requires a name", node.Line)
	}

	var value model.Value
	var err error
	if raw.Type != "" {
		tag := model.Tag(raw.Type)
		if !tag.IsValid() {
			return Option{}, fmt.Errorf("line %d: option %q has unknown type %q", node.Line, raw.Name, raw.Type)
		}
		value, err = decodeTaggedValue(&raw.Value, tag)
	} else {
		value, err = decodeInferredValue(&raw.Value)
	}
	if err != nil {
		return Option{}, fmt.Errorf("option %q: %w", raw.Name, err)
	}
	return Option{Name: raw.Name, Value: value}, nil
}

// decodeTaggedValue interprets the YAML literal according to an explicitly
// declared type tag. Explicit tags always win over the literal's own shape.
func decodeTaggedValue(node *yaml.Node, tag model.Tag) (model.Value, error) {
	if node.Kind == 0 {
		return model.Value{}, fmt.Errorf("declared type %s but no value", tag)
	}

	switch tag {
	case model.TagBool:
		var b bool
		if err := node.Decode(&b); err != nil {
			return model.Value{}, fmt.Errorf("line %d: not a boolean", node.Line)
		}
		v := model.BoolValue(b)
		v.Explicit = true
		return v, nil
	case model.TagInt:
		var i int64
		if err := node.Decode(&i); err != nil {
			return model.Value{}, fmt.Errorf("line %d: not an integer", node.Line)
		}
		v := model.IntValue(i)
		v.Explicit = true
		return v, nil
	case model.TagFloat:
		var f float64
		if err := node.Decode(&f); err != nil {
			return model.Value{}, fmt.Errorf("line %d: not a number", node.Line)
		}
		v := model.FloatValue(f)
		v.Explicit = true
		return v, nil
	case model.TagString:
		var s string
		if err := node.Decode(&s); err != nil {
			return model.Value{}, fmt.Errorf("line %d: not a string", node.Line)
		}
		v := model.StringValue(s)
		v.Explicit = true
		return v, nil
	case model.TagList:
		if node.Kind != yaml.SequenceNode {
			return model.Value{}, fmt.Errorf("line %d: not a sequence", node.Line)
		}
		items := make([]model.Value, 0, len(node.Content))
		for _, elem := range node.Content {
			item, err := decodeInferredValue(elem)
			if err != nil {
				return model.Value{}, err
			}
			items = append(items, item)
		}
		v := model.ListValue(items...)
		v.Explicit = true
		return v, nil
	case model.TagPrivileges:
		return decodePrivilegesValue(node)
	}
	return model.Value{}, fmt.Errorf("unsupported type tag %q", tag)
}

// decodePrivilegesValue accepts the two mutually exclusive input forms for a
// privilege option: a sequence of symbolic names, or a single raw mask
// (integer, possibly quoted). The forms never blend.
func decodePrivilegesValue(node *yaml.Node) (model.Value, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return model.Value{}, fmt.Errorf("line %d: privilege list must contain only names", node.Line)
		}
		v := model.PrivilegesValue(names, 0)
		v.Explicit = true
		return v, nil
	case yaml.ScalarNode:
		var raw string
		if err := node.Decode(&raw); err != nil {
			return model.Value{}, fmt.Errorf("line %d: invalid privilege value", node.Line)
		}
		mask, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return model.Value{}, fmt.Errorf("line %d: raw privilege mask %q is not a 32-bit integer", node.Line, raw)
		}
		v := model.IntValue(mask)
		v.Explicit = true
		return v, nil
	}
	return model.Value{}, fmt.Errorf("line %d: privileges must be a name list or a raw mask", node.Line)
}

// decodeInferredValue derives the type tag from the YAML literal itself.
// Inferred tags may later yield to the native value's tag during diffing.
func decodeInferredValue(node *yaml.Node) (model.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return model.Value{}, err
			}
			return model.BoolValue(b), nil
		case "!!int":
			var i int64
			if err := node.Decode(&i); err != nil {
				return model.Value{}, err
			}
			return model.IntValue(i), nil
		case "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return model.Value{}, err
			}
			return model.FloatValue(f), nil
		case "!!str":
			var s string
			if err := node.Decode(&s); err != nil {
				return model.Value{}, err
			}
			return model.StringValue(s), nil
		}
		return model.Value{}, fmt.Errorf("line %d: unsupported scalar %s", node.Line, node.Tag)
	case yaml.SequenceNode:
		items := make([]model.Value, 0, len(node.Content))
		for _, elem := range node.Content {
			item, err := decodeInferredValue(elem)
			if err != nil {
				return model.Value{}, err
			}
			items = append(items, item)
		}
		return model.ListValue(items...), nil
	}
	return model.Value{}, fmt.Errorf("line %d: mappings are not a declarable value; manage nested keys via key paths", node.Line)
}
