package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password does not match")

const (
	MinPasswordLength = 8
	MaxPasswordLength = 50
)

var commonPasswords = map[string]struct{}{
	"password":    {},
	"password123": {},
	"12345678":    {},
	"admin":       {},
	"qwerty":      {},
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password against a bcrypt hash
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}

// PasswordProblems lists every strength rule password breaks. An empty result means it is acceptable.
func PasswordProblems(password string) []string {
	var problems []string
	if n := len(password); n < MinPasswordLength || n > MaxPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must be %d-%d characters", MinPasswordLength, MaxPasswordLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		problems = append(problems, "Password must include uppercase, lowercase, number, and special character")
	}

	if _, common := commonPasswords[strings.ToLower(password)]; common {
		problems = append(problems, "This password is too common. Choose another one")
	}
	return problems
}
