package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mhfrontier/launcher/pkg/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// SQL is the SQLite-backed Store.
type SQL struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database and runs migrations.
func Open(dbPath string) (*SQL, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("datastore: open DB: %w", err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrent read performance
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("datastore: set WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("datastore: enable FK: %w", err)
	}
	// Set busy timeout to avoid "database is locked" under concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("datastore: set busy_timeout: %w", err)
	}

	s := &SQL{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("datastore: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		username       TEXT    NOT NULL UNIQUE CHECK(length(username) >= 3 AND length(username) <= 32),
		password_hash  TEXT    NOT NULL,
		rights         INTEGER NOT NULL DEFAULT 0,
		entrance_count INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT    NOT NULL DEFAULT (datetime('now')),
		last_login     TEXT
	);

	CREATE TABLE IF NOT EXISTS characters (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		name       TEXT    NOT NULL DEFAULT '',
		is_new     INTEGER NOT NULL DEFAULT 1,
		is_female  INTEGER NOT NULL DEFAULT 0,
		weapon     INTEGER NOT NULL DEFAULT 0,
		hr         INTEGER NOT NULL DEFAULT 0,
		gr         INTEGER NOT NULL DEFAULT 0,
		last_login INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_characters_account ON characters(account_id);
	`

	if err := s.ensureSchemaMigrations(ctx); err != nil {
		return err
	}
	currentVersion, err := s.getSchemaVersion(ctx)
	if err != nil {
		return err
	}

	migrations := []struct {
		version    int
		statements []string
	}{
		{
			version:    1,
			statements: []string{schema},
		},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		for _, stmt := range m.statements {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("datastore: migrate to v%d: %w", m.version, err)
			}
		}
		if err := s.setSchemaVersion(ctx, m.version); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQL) ensureSchemaMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("datastore: create schema_migrations: %w", err)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		return fmt.Errorf("datastore: check schema_migrations: %w", err)
	}
	if count == 0 {
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (0)"); err != nil {
			return fmt.Errorf("datastore: init schema_migrations: %w", err)
		}
	}
	return nil
}

func (s *SQL) getSchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_migrations LIMIT 1").Scan(&version); err != nil {
		return 0, fmt.Errorf("datastore: read schema version: %w", err)
	}
	return version, nil
}

func (s *SQL) setSchemaVersion(ctx context.Context, version int) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE schema_migrations SET version = ?", version); err != nil {
		return fmt.Errorf("datastore: update schema version: %w", err)
	}
	return nil
}

func formatDBTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

func parseDBTime(value string) (time.Time, error) {
	return time.ParseInLocation(dbTimeLayout, value, time.UTC)
}

// ---- Accounts ----

// CreateAccount creates a new account and returns it with the assigned ID.
// It validates the username format before inserting.
func (s *SQL) CreateAccount(username, passwordHash string, rights model.Rights) (*Account, error) {
	if err := model.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("datastore: create account: %w", err)
	}
	res, err := s.db.ExecContext(context.Background(),
		"INSERT INTO accounts (username, password_hash, rights) VALUES (?, ?, ?)",
		username, passwordHash, uint32(rights))
	if err != nil {
		// modernc/sqlite surfaces constraint violations as plain errors.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("datastore: create account: %w", ErrExists)
		}
		return nil, fmt.Errorf("datastore: create account: %w", err)
	}
	id, _ := res.LastInsertId()
	return &Account{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Rights:       rights,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// AccountByUsername retrieves an account by username.
func (s *SQL) AccountByUsername(username string) (*Account, error) {
	a := &Account{}
	var rights uint32
	var createdAt string
	var lastLogin *string
	err := s.db.QueryRowContext(context.Background(),
		"SELECT id, username, password_hash, rights, entrance_count, created_at, last_login FROM accounts WHERE username = ?",
		username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &rights, &a.EntranceCount, &createdAt, &lastLogin)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("datastore: get account: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("datastore: get account: %w", err)
	}
	a.Rights = model.Rights(rights)
	parsed, err := parseDBTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("datastore: get account: %w", err)
	}
	a.CreatedAt = parsed
	if lastLogin != nil {
		ll, err := parseDBTime(*lastLogin)
		if err != nil {
			return nil, fmt.Errorf("datastore: get account: %w", err)
		}
		a.LastLogin = ll
	}
	return a, nil
}

// RecordEntrance increments the account's entrance count, touches its
// last-login time, and returns the new count.
func (s *SQL) RecordEntrance(accountID int64, now time.Time) (uint32, error) {
	var count uint32
	err := s.db.QueryRowContext(context.Background(),
		"UPDATE accounts SET entrance_count = entrance_count + 1, last_login = ? WHERE id = ? RETURNING entrance_count",
		formatDBTime(now), accountID).
		Scan(&count)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("datastore: record entrance: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("datastore: record entrance: %w", err)
	}
	return count, nil
}

// ---- Characters ----

// Characters returns the account's characters ordered by id.
func (s *SQL) Characters(accountID int64) ([]model.Character, error) {
	rows, err := s.db.QueryContext(context.Background(),
		"SELECT id, name, is_new, is_female, weapon, hr, gr, last_login FROM characters WHERE account_id = ? ORDER BY id",
		accountID)
	if err != nil {
		return nil, fmt.Errorf("datastore: list characters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chars []model.Character
	for rows.Next() {
		var c model.Character
		var isNew, isFemale int
		if err := rows.Scan(&c.ID, &c.Name, &isNew, &isFemale, &c.Weapon, &c.HR, &c.GR, &c.LastLogin); err != nil {
			return nil, fmt.Errorf("datastore: scan character: %w", err)
		}
		c.IsNew = isNew != 0
		c.IsFemale = isFemale != 0
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("datastore: list characters: %w", err)
	}
	return chars, nil
}

// CreateCharacter inserts a character for the account and returns it with
// the assigned id.
func (s *SQL) CreateCharacter(accountID int64, c model.Character) (model.Character, error) {
	isNew := 0
	if c.IsNew {
		isNew = 1
	}
	isFemale := 0
	if c.IsFemale {
		isFemale = 1
	}
	res, err := s.db.ExecContext(context.Background(),
		"INSERT INTO characters (account_id, name, is_new, is_female, weapon, hr, gr, last_login) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		accountID, c.Name, isNew, isFemale, c.Weapon, c.HR, c.GR, c.LastLogin)
	if err != nil {
		return model.Character{}, fmt.Errorf("datastore: create character: %w", err)
	}
	id, _ := res.LastInsertId()
	c.ID = uint32(id) //nolint:gosec // AUTOINCREMENT ids stay well under 32 bits here
	return c, nil
}

// DeleteCharacter removes a character owned by the account. Deleting an id
// that does not exist is not an error.
func (s *SQL) DeleteCharacter(accountID int64, charID uint32) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("datastore: delete character: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var owner int64
	err = tx.QueryRowContext(ctx, "SELECT account_id FROM characters WHERE id = ?", charID).Scan(&owner)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("datastore: delete character: %w", err)
	}
	if owner != accountID {
		return fmt.Errorf("datastore: delete character: %w", ErrNotOwned)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM characters WHERE id = ?", charID); err != nil {
		return fmt.Errorf("datastore: delete character: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("datastore: delete character: %w", err)
	}
	return nil
}
