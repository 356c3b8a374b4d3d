package datastore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mhfrontier/launcher/pkg/model"
)

// Memory provides an in-memory Store implementation for tests.
// It mirrors SQLite behavior for validation and error handling.
type Memory struct {
	mu sync.RWMutex

	now func() time.Time

	nextAccountID int64
	nextCharID    uint32

	accountsByID       map[int64]*Account
	accountsByUsername map[string]*Account
	charsByID          map[uint32]*memoryCharacter
}

type memoryCharacter struct {
	accountID int64
	char      model.Character
}

// NewMemory creates a Memory store using time.Now().UTC().
func NewMemory() *Memory {
	return NewMemoryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryWithClock creates a Memory store with a custom clock.
func NewMemoryWithClock(now func() time.Time) *Memory {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Memory{
		now:                now,
		nextAccountID:      1,
		nextCharID:         1,
		accountsByID:       make(map[int64]*Account),
		accountsByUsername: make(map[string]*Account),
		charsByID:          make(map[uint32]*memoryCharacter),
	}
}

// Close is a no-op for Memory.
func (s *Memory) Close() error {
	return nil
}

// CreateAccount creates a new account and returns it with the assigned ID.
func (s *Memory) CreateAccount(username, passwordHash string, rights model.Rights) (*Account, error) {
	if err := model.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("datastore: create account: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accountsByUsername[username]; ok {
		return nil, fmt.Errorf("datastore: create account: %w", ErrExists)
	}

	a := &Account{
		ID:           s.nextAccountID,
		Username:     username,
		PasswordHash: passwordHash,
		Rights:       rights,
		CreatedAt:    s.now(),
	}
	s.nextAccountID++
	s.accountsByID[a.ID] = a
	s.accountsByUsername[a.Username] = a

	cp := *a
	return &cp, nil
}

// AccountByUsername retrieves an account by username.
func (s *Memory) AccountByUsername(username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accountsByUsername[username]
	if !ok {
		return nil, fmt.Errorf("datastore: get account: %w", ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

// RecordEntrance increments the account's entrance count, touches its
// last-login time, and returns the new count.
func (s *Memory) RecordEntrance(accountID int64, now time.Time) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accountsByID[accountID]
	if !ok {
		return 0, fmt.Errorf("datastore: record entrance: %w", ErrNotFound)
	}
	a.EntranceCount++
	a.LastLogin = now.UTC()
	return a.EntranceCount, nil
}

// Characters returns the account's characters ordered by id.
func (s *Memory) Characters(accountID int64) ([]model.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chars []model.Character
	for _, mc := range s.charsByID {
		if mc.accountID == accountID {
			chars = append(chars, mc.char)
		}
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })
	return chars, nil
}

// CreateCharacter inserts a character for the account and returns it with
// the assigned id.
func (s *Memory) CreateCharacter(accountID int64, c model.Character) (model.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accountsByID[accountID]; !ok {
		return model.Character{}, fmt.Errorf("datastore: create character: %w", ErrNotFound)
	}

	c.ID = s.nextCharID
	s.nextCharID++
	s.charsByID[c.ID] = &memoryCharacter{accountID: accountID, char: c}
	return c, nil
}

// DeleteCharacter removes a character owned by the account. Deleting an id
// that does not exist is not an error.
func (s *Memory) DeleteCharacter(accountID int64, charID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mc, ok := s.charsByID[charID]
	if !ok {
		return nil
	}
	if mc.accountID != accountID {
		return fmt.Errorf("datastore: delete character: %w", ErrNotOwned)
	}
	delete(s.charsByID, charID)
	return nil
}
