package remotemgmt

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mosen/salt-osx/internal/plist"
)

// vncSeed is the fixed XOR key Apple uses to obfuscate the legacy VNC
// password on disk. Passwords are zero padded to the seed length before
// ciphering, which caps them at 16 bytes.
var vncSeed = []byte{
	0x17, 0x34, 0x51, 0x6E, 0x8B, 0xA8, 0xC5, 0xE2,
	0xFF, 0x1C, 0x39, 0x56, 0x73, 0x90, 0xAD, 0xCA,
}

// EncipherPassword converts a plaintext VNC password to the uppercase hex
// form stored in com.apple.VNCSettings.txt. Input longer than the seed is
// truncated, matching what the native tooling does; the vnc_password codec
// rejects such declarations before they reach this point.
func EncipherPassword(password string) string {
	buf := make([]byte, len(vncSeed))
	copy(buf, password)
	for i := range buf {
		buf[i] ^= vncSeed[i]
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

// DecipherPassword reverses EncipherPassword, trimming the zero padding.
func DecipherPassword(enciphered string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(enciphered))
	if err != nil {
		return "", &plist.TypeMismatchError{
			Message: fmt.Sprintf("vnc password storage is not valid hex: %v", err),
		}
	}
	if len(raw) != len(vncSeed) {
		return "", &plist.TypeMismatchError{
			Message: fmt.Sprintf("vnc password storage has %d bytes, want %d", len(raw), len(vncSeed)),
		}
	}
	for i := range raw {
		raw[i] ^= vncSeed[i]
	}
	return strings.TrimRight(string(raw), "\x00"), nil
}
