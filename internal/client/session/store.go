package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/passguard/passguardctl/internal/client/session/migrations"

	_ "modernc.org/sqlite"
)

// Store is the durable mirror of the trusted token and identity snapshot.
// It is written only by the Controller, on the same transitions that
// mutate the in-memory session.
type Store interface {
	Load(ctx context.Context) (token string, identity Identity, err error)
	Save(ctx context.Context, token string, identity Identity) error
	Clear(ctx context.Context) error
}

// Metadata keys used in the store.
const (
	metaToken    = "token"
	metaUsername = "username"
	metaRoles    = "roles"
)

// SQLiteStore keeps the session snapshot in a local key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the sqlite database at path and
// applies pending migrations.
func OpenStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating token store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already-migrated database, mainly for tests.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// Load returns the persisted token and identity snapshot. A store that has
// never seen a login yields an empty token and no error.
func (s *SQLiteStore) Load(ctx context.Context) (string, Identity, error) {
	token, err := s.get(ctx, metaToken)
	if err != nil {
		return "", Identity{}, err
	}
	if token == "" {
		return "", Identity{}, nil
	}

	username, err := s.get(ctx, metaUsername)
	if err != nil {
		return "", Identity{}, err
	}
	rolesRaw, err := s.get(ctx, metaRoles)
	if err != nil {
		return "", Identity{}, err
	}

	identity := Identity{Subject: username}
	if rolesRaw != "" {
		identity.Roles = strings.Split(rolesRaw, ",")
	}
	return token, identity, nil
}

// Save persists the token and identity snapshot in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, token string, identity Identity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range map[string]string{
		metaToken:    token,
		metaUsername: identity.Subject,
		metaRoles:    strings.Join(identity.Roles, ","),
	} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO metadata (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
		}
	}

	return tx.Commit()
}

// Clear wipes everything the store holds.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata`)
	if err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}
