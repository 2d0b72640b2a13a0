package session

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	t.Parallel()

	s := NewSQLiteStore(setupDB(t, "store_empty"))

	token, identity, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, token)
	require.Empty(t, identity.Subject)
	require.Empty(t, identity.Roles)
}

func TestSQLiteStore_SaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	s := NewSQLiteStore(setupDB(t, "store_roundtrip"))
	ctx := context.Background()

	identity := Identity{Subject: "alice", Roles: []string{"ROLE_USER", "ROLE_ADMIN"}}
	require.NoError(t, s.Save(ctx, "tok-1", identity))

	token, got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
	require.Equal(t, "alice", got.Subject)
	require.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, got.Roles)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	t.Parallel()

	s := NewSQLiteStore(setupDB(t, "store_overwrite"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok-1", Identity{Subject: "alice", Roles: []string{"ROLE_USER"}}))
	require.NoError(t, s.Save(ctx, "tok-2", Identity{Subject: "bob", Roles: []string{"ROLE_ADMIN"}}))

	token, identity, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-2", token)
	require.Equal(t, "bob", identity.Subject)
	require.Equal(t, []string{"ROLE_ADMIN"}, identity.Roles)
}

func TestSQLiteStore_Clear(t *testing.T) {
	t.Parallel()

	s := NewSQLiteStore(setupDB(t, "store_clear"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok-1", Identity{Subject: "alice"}))
	require.NoError(t, s.Clear(ctx))

	token, _, err := s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, token)
}
