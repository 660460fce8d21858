package security

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPIN is returned for PINs that are not 4 to 8 digits
var ErrInvalidPIN = errors.New("PIN must be 4 to 8 digits")

// HashPIN validates and hashes a staff PIN
func HashPIN(pin string) (string, error) {
	if len(pin) < 4 || len(pin) > 8 {
		return "", ErrInvalidPIN
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return "", ErrInvalidPIN
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hash), nil
}

// CheckPIN reports whether pin matches hash
func CheckPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
