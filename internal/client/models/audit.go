package models

// Audit actions as recorded by the server.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditRecord is one row of the append-only action log. Read-only from the
// client's perspective.
type AuditRecord struct {
	ID           int64     `json:"id"`
	CredentialID int64     `json:"passwordId"`
	Action       string    `json:"action"`
	Actor        string    `json:"username"`
	Timestamp    Timestamp `json:"timestamp"`
}
