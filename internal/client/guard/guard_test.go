package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/passguard/passguardctl/internal/client/session"
	"github.com/passguard/passguardctl/internal/common"
)

func snap(phase session.Phase, roles ...string) session.Snapshot {
	return session.Snapshot{
		Phase:    phase,
		Identity: session.Identity{Subject: "u", Roles: roles},
	}
}

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		snapshot     session.Snapshot
		requiredRole string
		want         Decision
	}{
		{
			name:     "anonymous to public-free view still needs auth",
			snapshot: snap(session.PhaseAnonymous),
			want:     RedirectLogin,
		},
		{
			name:     "awaiting second factor is not authenticated",
			snapshot: snap(session.PhaseAwaitingSecondFactor),
			want:     RedirectLogin,
		},
		{
			name:     "authenticated without role requirement",
			snapshot: snap(session.PhaseAuthenticated, common.RoleUser),
			want:     Allow,
		},
		{
			name:         "authenticated user lacking admin role",
			snapshot:     snap(session.PhaseAuthenticated, common.RoleUser),
			requiredRole: common.RoleAdmin,
			want:         RedirectDenied,
		},
		{
			name:         "admin passes the admin gate",
			snapshot:     snap(session.PhaseAuthenticated, common.RoleUser, common.RoleAdmin),
			requiredRole: common.RoleAdmin,
			want:         Allow,
		},
		{
			name:         "anonymous to admin view redirects to login, not denied",
			snapshot:     snap(session.PhaseAnonymous),
			requiredRole: common.RoleAdmin,
			want:         RedirectLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Decide(tt.snapshot, tt.requiredRole))
		})
	}
}
