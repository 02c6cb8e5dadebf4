package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

var errEmptyPassword = errors.New("password must not be empty")

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword compares password with hash. An empty hash means admin login
// is disabled and always fails.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return common.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return common.ErrUnauthorized
	}
	return nil
}
