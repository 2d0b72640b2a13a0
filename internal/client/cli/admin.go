package cli

import (
	"context"
	"fmt"
)

func (a *App) listUsers(ctx context.Context) {
	users, err := a.admin.ListUsers(ctx)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users.")
		return
	}
	fmt.Fprintf(a.out, "%-6s %-20s %-28s %s\n", "ID", "USERNAME", "EMAIL", "ENABLED")
	for _, u := range users {
		fmt.Fprintf(a.out, "%-6d %-20s %-28s %t\n", u.UserID, u.Username, u.Email, u.Enabled)
	}
}

func (a *App) showUser(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: user <id>")
		return
	}
	u, err := a.admin.GetUser(ctx, id)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "ID:       %d\n", u.UserID)
	fmt.Fprintf(a.out, "Username: %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:    %s\n", u.Email)
	fmt.Fprintf(a.out, "Role:     %s\n", u.Role)
	fmt.Fprintf(a.out, "Enabled:  %t\n", u.Enabled)
	fmt.Fprintf(a.out, "2FA:      %t\n", u.TwoFactorEnabled)
}

func (a *App) setRole(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok || len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: role <id> <ROLE_USER|ROLE_ADMIN>")
		return
	}
	if err := a.admin.UpdateRole(ctx, id, args[1]); err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "Role of user %d set to %s.\n", id, args[1])
}

func (a *App) setEnabled(ctx context.Context, args []string, enabled bool) {
	id, ok := parseID(args)
	if !ok {
		if enabled {
			fmt.Fprintln(a.out, "Usage: enable <id>")
		} else {
			fmt.Fprintln(a.out, "Usage: disable <id>")
		}
		return
	}
	if err := a.admin.SetEnabled(ctx, id, enabled); err != nil {
		a.reportError(ctx, err)
		return
	}
	if enabled {
		fmt.Fprintf(a.out, "User %d enabled.\n", id)
	} else {
		fmt.Fprintf(a.out, "User %d disabled.\n", id)
	}
}
