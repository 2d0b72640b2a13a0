package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) profile(ctx context.Context) {
	p, err := a.api.UserProfile(ctx)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "Username: %s\n", p.Username)
	fmt.Fprintf(a.out, "Email:    %s\n", p.Email)
	fmt.Fprintf(a.out, "Roles:    %s\n", strings.Join(p.Roles, ", "))
	fmt.Fprintf(a.out, "Enabled:  %t\n", p.Enabled)
	fmt.Fprintf(a.out, "2FA:      %t\n", p.TwoFactorEnabled)
}

// enableMfa starts MFA enrollment. The server returns an otpauth:// URI to
// feed into an authenticator app; the enrollment is not active until a
// code is verified with mfa-verify.
func (a *App) enableMfa(ctx context.Context) {
	uri, err := a.api.EnableMfa(ctx)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintln(a.out, "Add this secret to your authenticator app:")
	fmt.Fprintln(a.out, uri)
	fmt.Fprintln(a.out, "Then run 'mfa-verify' with a current code to finish enrollment.")
}

func (a *App) verifyMfa(ctx context.Context) {
	code, err := getSimpleText(a.reader, "Enter the 6-digit code from your authenticator app", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if err := a.api.VerifyMfa(ctx, code); err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintln(a.out, "Two-factor authentication is now enabled.")
}

func (a *App) disableMfa(ctx context.Context) {
	answer, err := getSimpleText(a.reader, "Disable two-factor authentication? (y/N)", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Cancelled.")
		return
	}
	if err := a.api.DisableMfa(ctx); err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintln(a.out, "Two-factor authentication disabled.")
}
