package users

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash compared against when the email is unknown so both failure paths cost the same
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("ciale-dummy-password"), bcrypt.DefaultCost)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// checkPassword returns ErrInvalidCredentials on mismatch
func checkPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("failed to verify password: %w", err)
}
