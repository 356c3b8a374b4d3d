// Package datastore persists sign-server accounts and characters.
//
// The default implementation is SQLite; a map-backed Memory implementation
// with identical semantics backs handler tests.
package datastore

import (
	"errors"
	"time"

	"github.com/mhfrontier/launcher/pkg/model"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("datastore: not found")
	// ErrExists is returned when a unique constraint would be violated.
	ErrExists = errors.New("datastore: already exists")
	// ErrNotOwned is returned when a character belongs to another account.
	ErrNotOwned = errors.New("datastore: character owned by another account")
)

// Account is a registered launcher account.
type Account struct {
	ID            int64
	Username      string
	PasswordHash  string
	Rights        model.Rights
	EntranceCount uint32
	CreatedAt     time.Time
	LastLogin     time.Time // zero until the first recorded entrance
}

// Store defines the persistence interface for the sign server.
type Store interface {
	// CreateAccount creates a new account and returns it with the
	// assigned ID. Returns ErrExists if the username is taken.
	CreateAccount(username, passwordHash string, rights model.Rights) (*Account, error)

	// AccountByUsername retrieves an account. Returns ErrNotFound if no
	// such username is registered.
	AccountByUsername(username string) (*Account, error)

	// RecordEntrance increments the account's entrance count and touches
	// its last-login time, returning the new count.
	RecordEntrance(accountID int64, now time.Time) (uint32, error)

	// Characters returns the account's characters ordered by id.
	Characters(accountID int64) ([]model.Character, error)

	// CreateCharacter inserts a character for the account and returns it
	// with the assigned id.
	CreateCharacter(accountID int64, c model.Character) (model.Character, error)

	// DeleteCharacter removes a character. Deleting an id that does not
	// exist is not an error; deleting a character owned by a different
	// account returns ErrNotOwned.
	DeleteCharacter(accountID int64, charID uint32) error

	Close() error
}

// Compile-time checks.
var (
	_ Store = (*SQL)(nil)
	_ Store = (*Memory)(nil)
)
