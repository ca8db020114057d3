package util

import (
	"regexp"
)

var pinRe = regexp.MustCompile(`^[0-9]{4,8}$`)

func ValidateHouseholdName(name string) bool {
	return len(name) >= 3 && len(name) <= 30
}

func ValidatePin(pin string) bool {
	return pinRe.MatchString(pin)
}
