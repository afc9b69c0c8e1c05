// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	nonDigits   = regexp.MustCompile(`[^0-9]`)
	phoneGroups = regexp.MustCompile(`(\d{3})(\d{3,4})(\d{4})`)
	seoulPhone  = regexp.MustCompile(`^(02)(\d{3,4})(\d{4})$`)
	e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
)

// DigitsOnly strips everything but 0-9.
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// FormatPhone reduces input to digits and groups the first match as
// 3-3-4 or 3-4-4, e.g. 01012345678 -> 010-1234-5678. Seoul numbers keep
// the two-digit area code: 021234567 -> 02-123-4567.
func FormatPhone(raw string) string {
	digits := DigitsOnly(raw)
	if m := seoulPhone.FindStringSubmatch(digits); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	loc := phoneGroups.FindStringSubmatchIndex(digits)
	if loc == nil {
		return digits
	}
	formatted := digits[loc[2]:loc[3]] + "-" + digits[loc[4]:loc[5]] + "-" + digits[loc[6]:loc[7]]
	return digits[:loc[0]] + formatted + digits[loc[1]:]
}

// ValidatePhone checks if a phone number is in E.164 international format
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return e164Pattern.MatchString(cleaned)
}
