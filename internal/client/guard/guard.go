// Package guard decides whether a navigation target may be rendered for
// the current session. The decision is a pure function of a fresh session
// snapshot and is re-evaluated on every navigation, never cached, so a
// role change takes effect on the next guarded transition.
package guard

import "github.com/passguard/passguardctl/internal/client/session"

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow renders the requested view.
	Allow Decision = iota
	// RedirectLogin means the session holds no trusted token.
	RedirectLogin
	// RedirectDenied means the session is authenticated but lacks the
	// required role. Distinct from RedirectLogin on purpose.
	RedirectDenied
)

// Decide evaluates a navigation to a view that requires authentication
// and, when requiredRole is non-empty, membership in that role.
func Decide(s session.Snapshot, requiredRole string) Decision {
	if !s.Authenticated() {
		return RedirectLogin
	}
	if requiredRole != "" && !s.Identity.HasRole(requiredRole) {
		return RedirectDenied
	}
	return Allow
}
