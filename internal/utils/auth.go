package utils

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ParseInputString trims whitespace and collapses internal runs of spaces.
func ParseInputString(in string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(in)), " ")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(ParseInputString(email))
}

func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("a password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
