package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/passguard/passguardctl/internal/client/models"
	"github.com/passguard/passguardctl/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func record(id int64, action string, ts time.Time) models.AuditRecord {
	return models.AuditRecord{
		ID:           id,
		CredentialID: 10,
		Action:       action,
		Actor:        "alice",
		Timestamp:    models.Timestamp{Time: ts},
	}
}

type fakeAuditAPI struct {
	AllRet []models.AuditRecord
	AllErr error

	ScopedRet []models.AuditRecord
	ScopedErr error
	LastID    int64
}

func (f *fakeAuditAPI) AuditLogs(ctx context.Context) ([]models.AuditRecord, error) {
	return f.AllRet, f.AllErr
}

func (f *fakeAuditAPI) AuditLogsForCredential(ctx context.Context, id int64) ([]models.AuditRecord, error) {
	f.LastID = id
	return f.ScopedRet, f.ScopedErr
}

func TestListAll_NewestFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAuditAPI{AllRet: []models.AuditRecord{
		record(1, models.AuditActionCreate, base),
		record(3, models.AuditActionDelete, base.Add(2*time.Hour)),
		record(2, models.AuditActionUpdate, base.Add(time.Hour)),
	}}
	s := NewService(api, testLogger())

	records, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, int64(3), records[0].ID)
	require.Equal(t, int64(2), records[1].ID)
	require.Equal(t, int64(1), records[2].ID)
}

func TestListAll_Error(t *testing.T) {
	t.Parallel()

	api := &fakeAuditAPI{AllErr: errors.New("boom")}
	s := NewService(api, testLogger())

	_, err := s.ListAll(context.Background())
	require.Error(t, err)
}

func TestListForCredential_EmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	api := &fakeAuditAPI{ScopedRet: nil}
	s := NewService(api, testLogger())

	records, err := s.ListForCredential(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)
	require.Equal(t, int64(42), api.LastID)
}

func TestListForCredential_ErrorStaysAnError(t *testing.T) {
	t.Parallel()

	api := &fakeAuditAPI{ScopedErr: errors.New("boom")}
	s := NewService(api, testLogger())

	records, err := s.ListForCredential(context.Background(), 42)
	require.Error(t, err)
	require.Nil(t, records)
}
