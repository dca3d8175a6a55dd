package httpapi

import "regexp"

// usernamePattern and hexFieldPattern are the exact validation rules of spec.md §6.
var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)
	hexFieldPattern = regexp.MustCompile(`^[0-9A-Fa-f]+$`)
)

func validUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

func validHexField(s string) bool {
	return hexFieldPattern.MatchString(s)
}
