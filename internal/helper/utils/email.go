package utils

import (
	"net/mail"
	"strings"
)

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// FirstName is used for the email greeting.
func FirstName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	return strings.Fields(name)[0]
}
