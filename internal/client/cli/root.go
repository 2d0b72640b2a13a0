package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/passguard/passguardctl/internal/client/guard"
	"github.com/passguard/passguardctl/internal/common"
)

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	if !snap.Authenticated() {
		return ""
	}
	return fmt.Sprintf("(%s)", snap.Identity.Subject)
}

// navigate runs the authorization guard for a view transition. It is
// evaluated freshly on every command, so a role change on the server takes
// effect on the next guarded transition without a logout.
func (a *App) navigate(requiredRole string) bool {
	switch guard.Decide(a.session.Snapshot(), requiredRole) {
	case guard.RedirectLogin:
		fmt.Fprintln(a.out, "Please log in first (type 'login').")
		return false
	case guard.RedirectDenied:
		fmt.Fprintln(a.out, "Access denied: this view requires elevated permissions.")
		return false
	default:
		return true
	}
}

func (a *App) printHelp() {
	if a.session.Snapshot().Authenticated() {
		fmt.Fprintln(a.out, "Vault:   list [filter], add, show <id>, copy <id>, reveal <id>, update <id>, delete <id>")
		fmt.Fprintln(a.out, "Account: profile, mfa-enable, mfa-verify, mfa-disable, logout")
		fmt.Fprintln(a.out, "Admin:   audit [id], users, user <id>, role <id> <name>, enable <id>, disable <id>")
		fmt.Fprintln(a.out, "Other:   help, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: login, signup, forgot-password, reset-password, help, exit")
	}
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to PassGuard (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "pgctl %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()

		// Public.
		case "login":
			a.Login(ctx)
		case "signup":
			a.Signup(ctx)
		case "forgot-password":
			a.ForgotPassword(ctx)
		case "reset-password":
			a.ResetPassword(ctx)

		// Authenticated.
		case "logout":
			a.Logout(ctx)
		case "list":
			if a.navigate("") {
				a.list(ctx, strings.Join(args, " "))
			}
		case "add":
			if a.navigate("") {
				a.add(ctx)
			}
		case "show":
			if a.navigate("") {
				a.show(ctx, args)
			}
		case "copy":
			if a.navigate("") {
				a.copySecret(ctx, args)
			}
		case "reveal":
			if a.navigate("") {
				a.revealSecret(ctx, args)
			}
		case "update":
			if a.navigate("") {
				a.update(ctx, args)
			}
		case "delete":
			if a.navigate("") {
				a.delete(ctx, args)
			}
		case "profile":
			if a.navigate("") {
				a.profile(ctx)
			}
		case "mfa-enable":
			if a.navigate("") {
				a.enableMfa(ctx)
			}
		case "mfa-verify":
			if a.navigate("") {
				a.verifyMfa(ctx)
			}
		case "mfa-disable":
			if a.navigate("") {
				a.disableMfa(ctx)
			}

		// Admin-gated.
		case "audit":
			if a.navigate(common.RoleAdmin) {
				a.auditView(ctx, args)
			}
		case "users":
			if a.navigate(common.RoleAdmin) {
				a.listUsers(ctx)
			}
		case "user":
			if a.navigate(common.RoleAdmin) {
				a.showUser(ctx, args)
			}
		case "role":
			if a.navigate(common.RoleAdmin) {
				a.setRole(ctx, args)
			}
		case "enable":
			if a.navigate(common.RoleAdmin) {
				a.setEnabled(ctx, args, true)
			}
		case "disable":
			if a.navigate(common.RoleAdmin) {
				a.setEnabled(ctx, args, false)
			}

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
