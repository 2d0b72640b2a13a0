// Package audit projects the server's append-only action log. The client
// never creates or mutates records; it only lists them, globally or scoped
// to one credential. A successful fetch with no rows is a valid "no
// history" answer and is kept distinct from a failed fetch.
package audit

import (
	"context"
	"sort"

	"github.com/passguard/passguardctl/internal/client/models"
	"github.com/passguard/passguardctl/internal/logging"
)

// API is the slice of the backend the audit service needs.
type API interface {
	AuditLogs(ctx context.Context) ([]models.AuditRecord, error)
	AuditLogsForCredential(ctx context.Context, id int64) ([]models.AuditRecord, error)
}

type Service struct {
	api API
	log logging.Logger
}

func NewService(api API, log logging.Logger) *Service {
	return &Service{api: api, log: log}
}

// ListAll returns every audit record, newest first. The endpoint is
// admin-gated server-side; callers gate navigation with the guard as well.
func (s *Service) ListAll(ctx context.Context) ([]models.AuditRecord, error) {
	records, err := s.api.AuditLogs(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(records)
	return records, nil
}

// ListForCredential returns the history of one credential, newest first.
// An empty, non-nil slice means the id is valid but has no history.
func (s *Service) ListForCredential(ctx context.Context, id int64) ([]models.AuditRecord, error) {
	records, err := s.api.AuditLogsForCredential(ctx, id)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.AuditRecord{}
	}
	sortNewestFirst(records)
	return records, nil
}

func sortNewestFirst(records []models.AuditRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp.Time)
	})
}
