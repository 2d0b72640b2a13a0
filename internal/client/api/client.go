// Package api is the REST client for the PassGuard backend. It owns the
// wire contract only: request building, bearer-token attachment, and the
// mapping from HTTP statuses to the shared error taxonomy. All state
// (session, vault list, audit views) lives in the service layers above.
package api

import (
	"context"

	"github.com/passguard/passguardctl/internal/client/models"
)

// TokenSource yields the current trusted bearer token, or "" when the
// session is not authenticated. A pending (pre-MFA) token must never be
// returned here.
type TokenSource interface {
	Token() string
}

// SignInResult is the body of a successful POST /auth/signin.
type SignInResult struct {
	Token        string `json:"jwtToken"`
	Is2faEnabled bool   `json:"is2faEnabled"`
}

// Client is the full backend surface the control plane consumes.
type Client interface {
	// Authentication.
	SignIn(ctx context.Context, username, password string) (*SignInResult, error)
	VerifyMfaLogin(ctx context.Context, code, pendingToken string) error
	SignUp(ctx context.Context, username, email, password string) error

	// Account self-service.
	UserProfile(ctx context.Context) (*models.Profile, error)
	EnableMfa(ctx context.Context) (string, error)
	VerifyMfa(ctx context.Context, code string) error
	DisableMfa(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	// Vault.
	ListPasswords(ctx context.Context) ([]models.CredentialEntry, error)
	CreatePassword(ctx context.Context, c models.NewCredential) (*models.CredentialEntry, error)
	UpdatePassword(ctx context.Context, id int64, patch models.CredentialPatch) (*models.CredentialEntry, error)
	DeletePassword(ctx context.Context, id int64) error
	DecryptPassword(ctx context.Context, id int64) (string, error)

	// Audit (admin only, enforced server-side as well).
	AuditLogs(ctx context.Context) ([]models.AuditRecord, error)
	AuditLogsForCredential(ctx context.Context, id int64) ([]models.AuditRecord, error)

	// Admin subsystem.
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.UserDetail, error)
	UpdateUserRole(ctx context.Context, id int64, roleName string) error
	SetUserEnabled(ctx context.Context, id int64, enabled bool) error
}
