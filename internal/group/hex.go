package group

import (
	"fmt"
	"math/big"
	"regexp"
)

// hexPattern matches the wire format for big-integer fields (spec §6):
// one or more hex digits, uppercase accepted on decode.
var hexPattern = regexp.MustCompile(`^[0-9A-Fa-f]+$`)

// EncodeHex renders n as lowercase hexadecimal of its big-endian unsigned
// magnitude, with no leading zeros other than the single digit "0" for the
// zero value (spec §4.2/§6). n must be non-negative. A nil n encodes as
// "0" rather than panicking, so a malformed internal result degrades to a
// harmless wire value instead of crashing the process.
func EncodeHex(n *big.Int) string {
	if n == nil || n.Sign() == 0 {
		return "0"
	}
	return n.Text(16)
}

// DecodeHex parses s as an unsigned hexadecimal integer. It accepts
// uppercase digits (spec §6) but rejects anything else, including a
// leading "0x" prefix, sign characters, or empty input.
func DecodeHex(s string) (*big.Int, error) {
	if s == "" || !hexPattern.MatchString(s) {
		return nil, fmt.Errorf("group: %q is not a valid hex integer", s)
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("group: failed to parse hex integer %q", s)
	}
	return n, nil
}
