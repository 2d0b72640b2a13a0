// Package admin is the client of the peer admin subsystem: user listing,
// account details, role changes and enable/disable toggles. Every
// operation is admin-gated both here (via guarded navigation) and on the
// server.
package admin

import (
	"context"

	"github.com/passguard/passguardctl/internal/client/models"
	"github.com/passguard/passguardctl/internal/common"
	"github.com/passguard/passguardctl/internal/logging"
)

// API is the slice of the backend the admin service needs.
type API interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.UserDetail, error)
	UpdateUserRole(ctx context.Context, id int64, roleName string) error
	SetUserEnabled(ctx context.Context, id int64, enabled bool) error
}

type Service struct {
	api API
	log logging.Logger
}

func NewService(api API, log logging.Logger) *Service {
	return &Service{api: api, log: log}
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.api.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*models.UserDetail, error) {
	return s.api.GetUser(ctx, id)
}

// UpdateRole validates the role name locally before the call.
func (s *Service) UpdateRole(ctx context.Context, id int64, roleName string) error {
	if roleName != common.RoleUser && roleName != common.RoleAdmin {
		return &common.ValidationError{Field: "role", Reason: "must be ROLE_USER or ROLE_ADMIN"}
	}
	return s.api.UpdateUserRole(ctx, id, roleName)
}

func (s *Service) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.api.SetUserEnabled(ctx, id, enabled)
}
