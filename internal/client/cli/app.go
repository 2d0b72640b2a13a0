package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/passguard/passguardctl/internal/client/admin"
	"github.com/passguard/passguardctl/internal/client/api"
	"github.com/passguard/passguardctl/internal/client/audit"
	"github.com/passguard/passguardctl/internal/client/config"
	"github.com/passguard/passguardctl/internal/client/session"
	"github.com/passguard/passguardctl/internal/client/vault"
	"github.com/passguard/passguardctl/internal/common"
	"github.com/passguard/passguardctl/internal/logging"
)

// App wires the control-plane services to the REPL. All user interaction
// goes through out/reader so tests can drive it.
type App struct {
	config  *config.Config
	log     logging.Logger
	api     api.Client
	session *session.Controller
	store   *session.SQLiteStore
	vault   *vault.Service
	audit   *audit.Service
	admin   *admin.Service
	reader  *bufio.Reader
	out     io.Writer

	// openAuditID is the credential id of the audit view last rendered in
	// this session; a confirmed mutation for the same id re-fetches it.
	// Zero means no scoped audit view is open.
	openAuditID int64
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	store, err := session.OpenStore(ctx, cfg.TokenStorePath)
	if err != nil {
		return nil, err
	}

	apiClient := api.New(cfg.ServerEndpointURL, cfg.RequestTimeout, logger)
	sess := session.NewController(apiClient, store, logger)
	// The controller is the only component allowed to hand out the trusted
	// token; the pending (pre-MFA) one never reaches the transport.
	apiClient.SetTokenSource(sess)

	app := &App{
		config:  cfg,
		log:     logger,
		api:     apiClient,
		session: sess,
		store:   store,
		vault:   vault.NewService(apiClient, logger),
		audit:   audit.NewService(apiClient, logger),
		admin:   admin.NewService(apiClient, logger),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	app.vault.OnMutation(app.onVaultMutation)

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	// Session restoration must not delay the first prompt; until it
	// completes the guard simply reads the session as anonymous.
	go a.session.Restore(ctx)

	a.Root(ctx)
}

// reportError turns a taxonomy error into a human-readable message. An
// unauthorized response from an authenticated call means the token is dead:
// the session is torn down and the user is sent back to login.
func (a *App) reportError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, common.ErrUnauthorized) {
		if logoutErr := a.session.Logout(ctx); logoutErr != nil {
			a.log.Warn(ctx, "logout after rejected token failed", "error", logoutErr)
		}
		fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
		return
	}

	var validation *common.ValidationError
	var locked *common.AccountLockedError

	switch {
	case errors.As(err, &validation):
		fmt.Fprintf(a.out, "Invalid input: %s\n", validation.Error())
	case errors.As(err, &locked):
		fmt.Fprintln(a.out, locked.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		fmt.Fprintln(a.out, "Invalid credentials")
	case errors.Is(err, common.ErrInvalidMfaCode):
		fmt.Fprintln(a.out, "Invalid MFA code. Please try again.")
	case errors.Is(err, common.ErrForbidden):
		fmt.Fprintln(a.out, "You don't have permission to do that.")
	case errors.Is(err, common.ErrNotFound):
		fmt.Fprintln(a.out, "Not found. It may have been deleted.")
	case errors.Is(err, common.ErrActionPending):
		fmt.Fprintln(a.out, "That action is already in progress.")
	default:
		a.log.Error(ctx, "request failed", "error", err)
		fmt.Fprintln(a.out, "An unexpected error occurred. Please try again.")
	}
}
