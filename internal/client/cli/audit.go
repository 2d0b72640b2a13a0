package cli

import (
	"context"
	"fmt"

	"github.com/passguard/passguardctl/internal/client/models"
	"github.com/passguard/passguardctl/internal/common"
)

// auditView renders the action log, either globally ('audit') or scoped to
// one credential ('audit <id>'). The scoped view is remembered so confirmed
// mutations for the same credential refresh it.
func (a *App) auditView(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.openAuditID = 0
		records, err := a.audit.ListAll(ctx)
		if err != nil {
			a.reportError(ctx, err)
			return
		}
		a.renderAudit(records)
		return
	}

	id, ok := parseID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: audit [id]")
		return
	}

	records, err := a.audit.ListForCredential(ctx, id)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	a.openAuditID = id
	if len(records) == 0 {
		fmt.Fprintf(a.out, "No history for credential %d.\n", id)
		return
	}
	a.renderAudit(records)
}

func (a *App) renderAudit(records []models.AuditRecord) {
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No audit records.")
		return
	}
	fmt.Fprintf(a.out, "%-20s %-8s %-16s %s\n", "TIMESTAMP", "ACTION", "USER", "CREDENTIAL")
	for _, r := range records {
		fmt.Fprintf(a.out, "%-20s %-8s %-16s %d\n",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Action, r.Actor, r.CredentialID)
	}
}

// onVaultMutation runs after the server confirmed a vault mutation. When a
// scoped audit view for the same credential is open and the session has
// admin rights, it is re-fetched so the new record shows up without a
// manual refresh.
func (a *App) onVaultMutation(id int64, action string) {
	if a.openAuditID == 0 || a.openAuditID != id {
		return
	}
	if !a.session.Snapshot().Identity.HasRole(common.RoleAdmin) {
		return
	}

	ctx := context.Background()
	records, err := a.audit.ListForCredential(ctx, id)
	if err != nil {
		a.log.Warn(ctx, "audit refresh after mutation failed", "id", id, "action", action, "error", err)
		return
	}
	fmt.Fprintf(a.out, "\nAudit log for credential %d updated:\n", id)
	a.renderAudit(records)
}
