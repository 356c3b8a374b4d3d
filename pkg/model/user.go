package model

import (
	"errors"
	"fmt"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
)

var ErrUsernameTooShort = fmt.Errorf("username must be at least %d characters", MinUsernameLength)
var ErrUsernameTooLong = fmt.Errorf("username must not exceed %d characters", MaxUsernameLength)
var ErrUsernameInvalidChars = errors.New("username must contain only alphanumeric characters, underscores, or hyphens")
var ErrPasswordEmpty = errors.New("password must not be empty")

// User is the account sub-record of a session: the access-rights bitmask
// and the token the server expects back on character operations.
type User struct {
	Rights Rights `json:"rights"`
	Token  string `json:"token"`
}

// ValidateUsername checks that a username is 3-32 ASCII alphanumeric,
// underscore, or hyphen characters. Returns nil on success or a
// descriptive error.
func ValidateUsername(name string) error {
	if len(name) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(name) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '-' {
			return ErrUsernameInvalidChars
		}
	}
	return nil
}

// ValidatePassword checks that a password is usable for registration.
// Only emptiness is rejected; servers owning real accounts are expected
// to front this with their own policy.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}
	return nil
}
