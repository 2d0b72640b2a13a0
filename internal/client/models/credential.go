// Package models defines the wire and view models the client exchanges
// with the PassGuard backend.
package models

// CredentialEntry is one vault item as returned by GET /passwords.
// The secret itself is never part of this projection; it is fetched
// transiently via the decrypt endpoint.
type CredentialEntry struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Username string `json:"username"`
	// Content is a structured rich-text body. The client round-trips it
	// on edit without interpreting it.
	Content string `json:"content,omitempty"`
}

// NewCredential is the payload for POST /passwords. Title, Username and
// Secret are required; URL is optional.
type NewCredential struct {
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Username string `json:"username"`
	Secret   string `json:"password"`
}

// CredentialPatch is the payload for PUT /passwords/{id}: a partial update
// of content and url only.
type CredentialPatch struct {
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}
