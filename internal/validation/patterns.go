package validation

import "regexp"

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex      = regexp.MustCompile(`^\+?[0-9]{7,14}$`)
	holderNameRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool { return emailRegex.MatchString(s) }

// IsPhone reports whether s is 7-14 digits with an optional leading '+'.
func IsPhone(s string) bool { return phoneRegex.MatchString(s) }

// IsHolderName reports whether s contains only ASCII letters and whitespace.
func IsHolderName(s string) bool { return holderNameRegex.MatchString(s) }
