// Package vault orchestrates CRUD and decrypt-on-demand operations against
// the credential collection. The service owns the canonical local list and
// applies deletes optimistically: the entry disappears immediately and is
// restored at its original position if the server call fails. In-flight
// bookkeeping is keyed per entry id, so independent operations never
// interfere with each other's rollback state.
package vault

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/passguard/passguardctl/internal/client/models"
	"github.com/passguard/passguardctl/internal/common"
	"github.com/passguard/passguardctl/internal/logging"
)

// API is the slice of the backend the vault service needs.
type API interface {
	ListPasswords(ctx context.Context) ([]models.CredentialEntry, error)
	CreatePassword(ctx context.Context, c models.NewCredential) (*models.CredentialEntry, error)
	UpdatePassword(ctx context.Context, id int64, patch models.CredentialPatch) (*models.CredentialEntry, error)
	DeletePassword(ctx context.Context, id int64) error
	DecryptPassword(ctx context.Context, id int64) (string, error)
}

// MutationHook is notified after every mutation the server confirmed, so
// an open audit view for the same credential can refresh. action is one of
// the models.AuditAction values.
type MutationHook func(id int64, action string)

// Service is safe for the REPL loop plus its background completions.
type Service struct {
	api API
	log logging.Logger

	mu         sync.Mutex
	entries    []models.CredentialEntry
	deleting   map[int64]struct{}
	decrypting map[int64]struct{}
	updating   map[int64]struct{}
	onMutation MutationHook
}

func NewService(api API, log logging.Logger) *Service {
	return &Service{
		api:        api,
		log:        log,
		deleting:   map[int64]struct{}{},
		decrypting: map[int64]struct{}{},
		updating:   map[int64]struct{}{},
	}
}

// OnMutation registers the hook fired after successful mutations.
func (s *Service) OnMutation(hook MutationHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutation = hook
}

func (s *Service) fireMutation(id int64, action string) {
	s.mu.Lock()
	hook := s.onMutation
	s.mu.Unlock()
	if hook != nil {
		hook(id, action)
	}
}

// Refresh fetches the canonical list from the server.
func (s *Service) Refresh(ctx context.Context) error {
	entries, err := s.api.ListPasswords(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Entries returns a copy of the canonical list.
func (s *Service) Entries() []models.CredentialEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CredentialEntry(nil), s.entries...)
}

// Filter returns the entries whose title, url or username contains the
// query, case-insensitively. Purely presentational: the canonical list is
// untouched and an empty query returns everything.
func (s *Service) Filter(query string) []models.CredentialEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	all := s.Entries()
	if q == "" {
		return all
	}
	filtered := make([]models.CredentialEntry, 0, len(all))
	for _, e := range all {
		hay := strings.ToLower(e.Title + " " + e.URL + " " + e.Username)
		if strings.Contains(hay, q) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Get looks up an entry in the local list.
func (s *Service) Get(id int64) (models.CredentialEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.CredentialEntry{}, false
}

// Create validates required fields locally, then sends the new credential.
// Validation failures never reach the network.
func (s *Service) Create(ctx context.Context, nc models.NewCredential) (*models.CredentialEntry, error) {
	if err := validateNew(nc); err != nil {
		return nil, err
	}

	entry, err := s.api.CreatePassword(ctx, nc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries = append(s.entries, *entry)
	s.mu.Unlock()

	s.fireMutation(entry.ID, models.AuditActionCreate)
	return entry, nil
}

// Update sends a partial update of content/url. Empty content is rejected
// locally.
func (s *Service) Update(ctx context.Context, id int64, patch models.CredentialPatch) (*models.CredentialEntry, error) {
	if strings.TrimSpace(patch.Content) == "" {
		return nil, &common.ValidationError{Field: "content", Reason: "must not be empty"}
	}

	s.mu.Lock()
	if _, busy := s.updating[id]; busy {
		s.mu.Unlock()
		return nil, common.ErrActionPending
	}
	s.updating[id] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.updating, id)
		s.mu.Unlock()
	}()

	entry, err := s.api.UpdatePassword(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i] = *entry
			break
		}
	}
	s.mu.Unlock()

	s.fireMutation(id, models.AuditActionUpdate)
	return entry, nil
}

// Delete removes the entry from the local list immediately, then issues
// the server call. On failure the entry is restored at its original
// position and the error is returned for the caller to surface, never
// swallowed. A second delete for the same id while one is in flight is
// refused with ErrActionPending; deletes of different ids are independent.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	if _, busy := s.deleting[id]; busy {
		s.mu.Unlock()
		return common.ErrActionPending
	}

	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return common.ErrNotFound
	}

	removed := s.entries[idx]
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.deleting[id] = struct{}{}
	s.mu.Unlock()

	err := s.api.DeletePassword(ctx, id)

	s.mu.Lock()
	delete(s.deleting, id)
	if err != nil {
		// Roll back at the original position. Concurrent deletes may have
		// shortened the list in the meantime; clamp rather than guess.
		if idx > len(s.entries) {
			idx = len(s.entries)
		}
		s.entries = append(s.entries[:idx], append([]models.CredentialEntry{removed}, s.entries[idx:]...)...)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.fireMutation(id, models.AuditActionDelete)
	return nil
}

// Decrypt fetches the plaintext secret for one entry, on demand. The
// result is returned to the caller for immediate use (clipboard, one-time
// display) and is never cached here. A second decrypt for the same id
// while one is outstanding is refused.
func (s *Service) Decrypt(ctx context.Context, id int64) (string, error) {
	s.mu.Lock()
	if _, busy := s.decrypting[id]; busy {
		s.mu.Unlock()
		return "", common.ErrActionPending
	}
	s.decrypting[id] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.decrypting, id)
		s.mu.Unlock()
	}()

	return s.api.DecryptPassword(ctx, id)
}

// SortedByTitle returns a copy of the canonical list ordered by title,
// for stable rendering.
func (s *Service) SortedByTitle() []models.CredentialEntry {
	entries := s.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
	})
	return entries
}

func validateNew(nc models.NewCredential) error {
	if strings.TrimSpace(nc.Title) == "" {
		return &common.ValidationError{Field: "title", Reason: "is required"}
	}
	if strings.TrimSpace(nc.Username) == "" {
		return &common.ValidationError{Field: "username", Reason: "is required"}
	}
	if strings.TrimSpace(nc.Secret) == "" {
		return &common.ValidationError{Field: "password", Reason: "is required"}
	}
	return nil
}
