// Package session owns the authentication state machine of the client:
// anonymous → awaiting second factor → authenticated. It is the single
// writer of session state; every other component reads immutable
// snapshots. The pending (pre-MFA) token is deliberately unreachable from
// the outside: Token() yields only the fully trusted one, so no vault
// call can ever be made with a token the server has not finished
// elevating.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/passguard/passguardctl/internal/client/api"
	"github.com/passguard/passguardctl/internal/logging"
)

// Phase is the coarse position in the authentication state machine.
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseAwaitingSecondFactor
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingSecondFactor:
		return "awaiting second factor"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Identity is the user identity derived from token claims.
type Identity struct {
	Subject string
	Roles   []string
}

// HasRole reports membership in a role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Snapshot is an immutable read of the session. It intentionally carries
// no token; components that need the bearer credential go through the
// TokenSource the controller implements.
type Snapshot struct {
	Phase        Phase
	Identity     Identity
	SessionStart time.Time
}

// Authenticated reports whether the session holds a trusted token.
func (s Snapshot) Authenticated() bool { return s.Phase == PhaseAuthenticated }

// ErrNotAwaitingMfa is returned by SubmitSecondFactor when no sign-in is
// waiting for verification.
var ErrNotAwaitingMfa = errors.New("no sign-in awaiting verification")

// AuthAPI is the slice of the backend the controller needs.
type AuthAPI interface {
	SignIn(ctx context.Context, username, password string) (*api.SignInResult, error)
	VerifyMfaLogin(ctx context.Context, code, pendingToken string) error
}

// Controller drives the state machine. Safe for use from the REPL loop and
// its background completions.
type Controller struct {
	api   AuthAPI
	store Store
	log   logging.Logger
	now   func() time.Time

	mu           sync.Mutex
	phase        Phase
	token        string
	pendingToken string
	identity     Identity
	sessionStart time.Time
}

func NewController(authAPI AuthAPI, store Store, log logging.Logger) *Controller {
	return &Controller{api: authAPI, store: store, log: log, now: time.Now}
}

// Snapshot returns the current session state for guards and views.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Phase:        c.phase,
		Identity:     Identity{Subject: c.identity.Subject, Roles: append([]string(nil), c.identity.Roles...)},
		SessionStart: c.sessionStart,
	}
}

// Token implements api.TokenSource. It returns the trusted token only; a
// pending token never leaves this package.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SubmitPrimaryCredentials sends username/password to the backend. When
// the account has a second factor enabled the issued token is held aside
// as pending and the session moves to PhaseAwaitingSecondFactor; otherwise
// the session becomes authenticated immediately and is persisted.
func (c *Controller) SubmitPrimaryCredentials(ctx context.Context, username, password string) (Snapshot, error) {
	result, err := c.api.SignIn(ctx, username, password)
	if err != nil {
		return c.Snapshot(), err
	}

	claims, err := DecodeClaims(result.Token)
	if err != nil {
		return c.Snapshot(), fmt.Errorf("server issued an unreadable token: %w", err)
	}

	if result.Is2faEnabled || claims.Is2faEnabled {
		c.mu.Lock()
		c.phase = PhaseAwaitingSecondFactor
		c.pendingToken = result.Token
		c.token = ""
		c.identity = Identity{}
		c.mu.Unlock()
		return c.Snapshot(), nil
	}

	c.promote(ctx, result.Token, claims)
	return c.Snapshot(), nil
}

// SubmitSecondFactor verifies a one-time code against the pending token.
// A wrong code leaves the pending token in place so the user can retry.
func (c *Controller) SubmitSecondFactor(ctx context.Context, code string) (Snapshot, error) {
	c.mu.Lock()
	if c.phase != PhaseAwaitingSecondFactor || c.pendingToken == "" {
		c.mu.Unlock()
		return c.Snapshot(), ErrNotAwaitingMfa
	}
	pending := c.pendingToken
	c.mu.Unlock()

	if err := c.api.VerifyMfaLogin(ctx, code, pending); err != nil {
		return c.Snapshot(), err
	}

	claims, err := DecodeClaims(pending)
	if err != nil {
		return c.Snapshot(), fmt.Errorf("server issued an unreadable token: %w", err)
	}

	c.promote(ctx, pending, claims)

	c.mu.Lock()
	c.pendingToken = ""
	c.mu.Unlock()

	return c.Snapshot(), nil
}

// promote installs a trusted token and mirrors it into the store. A store
// failure does not abort the login: the in-memory session stays canonical,
// it just will not survive a restart.
func (c *Controller) promote(ctx context.Context, token string, claims *Claims) {
	identity := Identity{Subject: claims.Subject, Roles: claims.Roles}

	c.mu.Lock()
	c.phase = PhaseAuthenticated
	c.token = token
	c.identity = identity
	c.sessionStart = claims.IssuedAt
	c.mu.Unlock()

	if err := c.store.Save(ctx, token, identity); err != nil {
		c.log.Warn(ctx, "failed to persist session", "error", err)
	}
}

// Logout clears the session and purges the store. Calling it while
// anonymous is a no-op.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	wasAnonymous := c.phase == PhaseAnonymous
	c.phase = PhaseAnonymous
	c.token = ""
	c.pendingToken = ""
	c.identity = Identity{}
	c.sessionStart = time.Time{}
	c.mu.Unlock()

	if wasAnonymous {
		return nil
	}
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("purging token store: %w", err)
	}
	return nil
}

// Restore is invoked once at startup. It trusts the store only as far as
// the persisted token decodes and has not expired; anything else is
// discarded and the session stays anonymous.
func (c *Controller) Restore(ctx context.Context) {
	token, _, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn(ctx, "failed to read token store", "error", err)
		return
	}
	if token == "" {
		return
	}

	claims, err := DecodeClaims(token)
	if err != nil || claims.Expired(c.now()) {
		c.log.Info(ctx, "discarding persisted session", "expired", err == nil)
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			c.log.Warn(ctx, "failed to purge token store", "error", clearErr)
		}
		return
	}

	c.mu.Lock()
	c.phase = PhaseAuthenticated
	c.token = token
	c.identity = Identity{Subject: claims.Subject, Roles: claims.Roles}
	c.sessionStart = claims.IssuedAt
	c.mu.Unlock()
}
