package cli

import (
	"context"
	"fmt"

	"github.com/passguard/passguardctl/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login runs the primary-credential step and, when the account has a
// second factor enabled, keeps prompting for a one-time code until it
// verifies or the user cancels with an empty line. A wrong code never
// discards the pending sign-in.
func (a *App) Login(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		a.reportError(ctx, err)
		return
	}

	snap, err := a.session.SubmitPrimaryCredentials(ctx, username, password)
	if err != nil {
		a.reportError(ctx, err)
		return
	}

	for snap.Phase == session.PhaseAwaitingSecondFactor {
		code, err := getSimpleText(a.reader, "Enter the 6-digit code from your authenticator app (empty to cancel)", a.out)
		if err != nil {
			a.reportError(ctx, err)
			return
		}
		if code == "" {
			fmt.Fprintln(a.out, "Sign-in cancelled.")
			return
		}

		snap, err = a.session.SubmitSecondFactor(ctx, code)
		if err != nil {
			a.reportError(ctx, err)
			continue
		}
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", snap.Identity.Subject)
	if err := a.vault.Refresh(ctx); err != nil {
		a.reportError(ctx, err)
		return
	}
	a.renderEntries(a.vault.Entries())
}

// Logout tears the session down. Safe to call when already logged out.
func (a *App) Logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		a.reportError(ctx, err)
		return
	}
	a.openAuditID = 0
	fmt.Fprintln(a.out, "Logged out.")
}

// Signup registers a new account; the user still logs in afterwards.
func (a *App) Signup(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		a.reportError(ctx, err)
		return
	}

	if err := a.api.SignUp(ctx, username, email, password); err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintln(a.out, "Account created. You can log in now.")
}

func (a *App) ForgotPassword(ctx context.Context) {
	email, err := getSimpleText(a.reader, "Account email", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if err := a.api.ForgotPassword(ctx, email); err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintln(a.out, "If the address is registered, a reset email is on its way.")
}

func (a *App) ResetPassword(ctx context.Context) {
	token, err := getSimpleText(a.reader, "Reset token from the email", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	newPassword, err := getPassword(a.out, "New password")
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if err := a.api.ResetPassword(ctx, token, newPassword); err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintln(a.out, "Password reset. Log in with the new password.")
}
