package appointments

import "regexp"

var e164Pattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone reports whether phone looks like an E.164 number: optional
// leading +, first digit 1-9, at most 15 digits in total.
func ValidatePhone(phone string) bool {
	return e164Pattern.MatchString(phone)
}
