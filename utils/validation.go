// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?\d{6,15}$`)

// ValidatePhone accepts national ("03 20 78 80 63") and international ("+33 3 20 78 80 63")
// numbers once spaces, dots, dashes and parentheses are removed.
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", ".", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}
