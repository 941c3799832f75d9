package utils

import "net/mail"

// ValidEmail accepts a bare address, rejecting display-name forms.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
