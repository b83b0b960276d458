// Package naprivs encodes and decodes the packed privilege mask used by the
// macOS Remote Management service ("naprivs" in the directory record).
//
// The native value is a signed 32-bit integer whose sign bit is meaningful:
// the high bits select whether a user is notified while observed, the low
// byte packs the individual privileges. All bit arithmetic happens on the
// unsigned pattern to avoid sign-extension surprises.
//
// Bit map, per Apple's kickstart tool:
//
//	0x00000001  send text messages
//	0x00000002  control and observe
//	0x00000004  copy items
//	0x00000008  delete and replace items
//	0x00000010  generate reports
//	0x00000020  open and quit apps
//	0x00000040  change settings
//	0x00000080  restart and shutdown
//	0xC0000000  observe with notification
//	0x80000000  observe without notification
//
// 0xC00000FF (-1073741569) is "all enabled"; 0x80000000 (-2147483648) is
// "all disabled".
package naprivs

import "fmt"

const (
	maskText            uint32 = 1 << 0
	maskControlObserve  uint32 = 1 << 1
	maskCopy            uint32 = 1 << 2
	maskDeleteReplace   uint32 = 1 << 3
	maskReports         uint32 = 1 << 4
	maskLaunch          uint32 = 1 << 5
	maskSettings        uint32 = 1 << 6
	maskRestartShutdown uint32 = 1 << 7
	maskObserveNotified uint32 = 0xC0000000
	maskObserveHidden   uint32 = 0x80000000
)

// All is the synthetic name expanding to every mapped bit.
const All = "all"

// None is the synthetic name for an empty privilege set.
const None = "none"

type entry struct {
	name string
	bits uint32
}

// Canonical decode order. observe_notified precedes observe_hidden so the
// shared high bit resolves to the notified form when both bits are set.
var table = []entry{
	{"text", maskText},
	{"control_observe", maskControlObserve},
	{"copy", maskCopy},
	{"delete_replace", maskDeleteReplace},
	{"reports", maskReports},
	{"launch", maskLaunch},
	{"settings", maskSettings},
	{"restart_shutdown", maskRestartShutdown},
	{"observe_notified", maskObserveNotified},
	{"observe_hidden", maskObserveHidden},
}

var byName = func() map[string]uint32 {
	m := make(map[string]uint32, len(table))
	for _, e := range table {
		m[e.name] = e.bits
	}
	return m
}()

// allMask is the union of every mapped bit, 0xC00000FF.
var allMask = func() uint32 {
	var u uint32
	for _, e := range table {
		u |= e.bits
	}
	return u
}()

// UnknownPrivilegeError reports a symbolic name absent from the mapping table.
type UnknownPrivilegeError struct {
	Name string
}

func (e *UnknownPrivilegeError) Error() string {
	return fmt.Sprintf("unknown remote management privilege %q", e.Name)
}

// Names returns every symbolic privilege name in canonical order, excluding
// the synthetic "all" and "none".
func Names() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.name
	}
	return out
}

// Decode converts a native mask into symbolic names plus a residual of any
// bits the table does not cover. It walks the table in canonical order so the
// same mask always produces the same sequence. When every mapped bit is set,
// "all" is emitted instead of the full expansion. Decode never fails; the
// residual absorbs anything unmapped.
func Decode(mask int32) (names []string, residual int32) {
	u := uint32(mask)

	if u&allMask == allMask {
		return []string{All}, int32(u &^ allMask)
	}

	for _, e := range table {
		if u&e.bits == e.bits {
			names = append(names, e.name)
			u &^= e.bits
		}
	}
	return names, int32(u)
}

// Encode converts symbolic names into the native mask, ORing in residual so
// that unmapped bits recovered by Decode survive a round trip. "all" sets
// every mapped bit, "none" contributes nothing, and the empty set yields 0,
// which is a valid state (no access) distinct from "not configured". An
// unrecognized name fails with UnknownPrivilegeError.
func Encode(names []string, residual int32) (int32, error) {
	var u uint32
	for _, name := range names {
		switch name {
		case All:
			u |= allMask
		case None:
		default:
			bits, ok := byName[name]
			if !ok {
				return 0, &UnknownPrivilegeError{Name: name}
			}
			u |= bits
		}
	}
	return int32(u | uint32(residual)), nil
}
