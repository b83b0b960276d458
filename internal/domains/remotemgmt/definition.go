// Package remotemgmt manages the macOS Remote Management (ARD) service:
// service activation, connection policy preferences, the packed privilege
// mask granted to all local users, and the legacy VNC password.
package remotemgmt

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/naprivs"
	"github.com/mosen/salt-osx/internal/plist"
)

// Name is the registry name for this domain.
const Name = "remotemgmt"

// Definition returns the remote management vocabulary in canonical order.
func Definition() *domain.Definition {
	return &domain.Definition{
		Name: Name,
		Options: []domain.OptionSpec{
			domain.Scalar("enabled", model.TagBool),
			domain.Scalar("allow_all_users", model.TagBool),
			domain.WithCodec("all_users_privs", model.TagPrivileges, privilegesCodec{}),
			domain.Scalar("enable_menu_extra", model.TagBool),
			domain.Scalar("enable_dir_logins", model.TagBool),
			domain.Scalar("directory_groups", model.TagList),
			domain.Scalar("enable_legacy_vnc", model.TagBool),
			domain.WithCodec("vnc_password", model.TagString, vncPasswordCodec{}),
			domain.Scalar("allow_vnc_requests", model.TagBool),
			domain.Scalar("allow_wbem_requests", model.TagBool),
		},
	}
}

// privilegesCodec translates between declared privilege sets and the native
// mask. The native store keeps the signed integer as a string, so that is
// what Encode emits and Decode accepts.
//
// Declarations arrive in one of two mutually exclusive forms: a list of
// symbolic names, or a single raw mask. Both normalize to the same canonical
// privilege set (a Decode of the Encoded mask), so equal masks always
// compare equal no matter which form declared them.
type privilegesCodec struct{}

func (privilegesCodec) Normalize(v model.Value) (model.Value, error) {
	switch v.Tag {
	case model.TagPrivileges:
		mask, err := naprivs.Encode(v.Names, v.Residual)
		if err != nil {
			return model.Value{}, err
		}
		return canonicalPrivileges(mask, v.Explicit), nil
	case model.TagList:
		names := make([]string, len(v.List))
		for i, item := range v.List {
			if item.Tag != model.TagString {
				return model.Value{}, &plist.TypeMismatchError{
					Message: "privilege lists may contain only names",
				}
			}
			names[i] = item.Str
		}
		mask, err := naprivs.Encode(names, 0)
		if err != nil {
			return model.Value{}, err
		}
		return canonicalPrivileges(mask, v.Explicit), nil
	case model.TagInt:
		if v.Int < math.MinInt32 || v.Int > math.MaxInt32 {
			return model.Value{}, &plist.TypeMismatchError{
				Message: fmt.Sprintf("raw privilege mask %d does not fit in 32 bits", v.Int),
			}
		}
		return canonicalPrivileges(int32(v.Int), v.Explicit), nil
	case model.TagString:
		mask, err := strconv.ParseInt(v.Str, 10, 32)
		if err != nil {
			return model.Value{}, &plist.TypeMismatchError{
				Message: fmt.Sprintf("raw privilege mask %q is not a 32-bit integer", v.Str),
			}
		}
		return canonicalPrivileges(int32(mask), v.Explicit), nil
	}
	return model.Value{}, &plist.TypeMismatchError{
		Message: "privileges must be a name list or a raw mask",
	}
}

func (privilegesCodec) Encode(v model.Value) (plist.Node, error) {
	if v.Tag != model.TagPrivileges {
		return nil, &plist.TypeMismatchError{Message: "expected a normalized privilege set"}
	}
	mask, err := naprivs.Encode(v.Names, v.Residual)
	if err != nil {
		return nil, err
	}
	return plist.String(strconv.FormatInt(int64(mask), 10)), nil
}

func (privilegesCodec) Decode(n plist.Node) (model.Value, error) {
	var mask int64
	switch t := n.(type) {
	case plist.Integer:
		mask = int64(t)
	case plist.String:
		parsed, err := strconv.ParseInt(string(t), 10, 32)
		if err != nil {
			return model.Value{}, &plist.TypeMismatchError{
				Message: fmt.Sprintf("native privilege mask %q is not a 32-bit integer", string(t)),
			}
		}
		mask = parsed
	default:
		return model.Value{}, &plist.TypeMismatchError{
			Message: fmt.Sprintf("native privilege mask has unsupported type %T", n),
		}
	}
	if mask < math.MinInt32 || mask > math.MaxInt32 {
		return model.Value{}, &plist.TypeMismatchError{
			Message: fmt.Sprintf("native privilege mask %d does not fit in 32 bits", mask),
		}
	}
	return canonicalPrivileges(int32(mask), false), nil
}

func canonicalPrivileges(mask int32, explicit bool) model.Value {
	names, residual := naprivs.Decode(mask)
	v := model.PrivilegesValue(names, residual)
	v.Explicit = explicit
	return v
}

// vncPasswordCodec keeps declarations in plaintext while the native value is
// the XOR-ciphered hex string Apple stores on disk. Diffs therefore compare
// plaintext against plaintext.
type vncPasswordCodec struct{}

func (vncPasswordCodec) Normalize(v model.Value) (model.Value, error) {
	if v.Tag != model.TagString {
		return model.Value{}, &plist.TypeMismatchError{Message: "vnc_password must be a string"}
	}
	// The on-disk cipher is the password XORed against a 16-byte seed, so
	// anything longer would be silently truncated. Fail the declaration
	// instead of converging to a prefix.
	if len(v.Str) > len(vncSeed) {
		return model.Value{}, &plist.TypeMismatchError{
			Message: fmt.Sprintf("vnc_password is limited to %d bytes, got %d", len(vncSeed), len(v.Str)),
		}
	}
	return v, nil
}

func (vncPasswordCodec) Encode(v model.Value) (plist.Node, error) {
	if v.Tag != model.TagString {
		return nil, &plist.TypeMismatchError{Message: "vnc_password must be a string"}
	}
	return plist.String(EncipherPassword(v.Str)), nil
}

func (vncPasswordCodec) Decode(n plist.Node) (model.Value, error) {
	hexed, ok := n.(plist.String)
	if !ok {
		return model.Value{}, &plist.TypeMismatchError{
			Message: fmt.Sprintf("native vnc password has unsupported type %T", n),
		}
	}
	password, err := DecipherPassword(string(hexed))
	if err != nil {
		return model.Value{}, err
	}
	return model.StringValue(password), nil
}
