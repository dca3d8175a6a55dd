package logging

import "math/big"

// HexPrefix renders n as lowercase hex truncated to its first 12 hex digits
// for safe inclusion in log lines. It exists so call sites never
// accidentally log a secret scalar in full: s and r must never be passed
// here at all (spec §7); only R, Y, and c should ever reach this helper
// (challengeId goes through StringPrefix).
func HexPrefix(n *big.Int) string {
	if n == nil {
		return "<nil>"
	}
	s := n.Text(16)
	const maxLen = 12
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "…"
}

// StringPrefix truncates an opaque identifier (e.g. a challengeId) to a
// short prefix for logging.
func StringPrefix(s string) string {
	const maxLen = 8
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "…"
}
