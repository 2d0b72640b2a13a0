package cli

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/passguard/passguardctl/internal/client/models"
)

// writeClipboard is a test seam for clipboard.WriteAll.
var writeClipboard = clipboard.WriteAll

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*-_=+"

// generatePassword produces a random secret from a mixed alphabet.
func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

func parseID(args []string) (int64, bool) {
	if len(args) < 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (a *App) renderEntries(entries []models.CredentialEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "The vault is empty.")
		return
	}
	fmt.Fprintf(a.out, "%-6s %-24s %-24s %s\n", "ID", "TITLE", "USERNAME", "URL")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-6d %-24s %-24s %s\n", e.ID, e.Title, e.Username, e.URL)
	}
}

// list refreshes the vault from the server and renders it, optionally
// narrowed by a case-insensitive filter. Filtering is presentational only.
func (a *App) list(ctx context.Context, query string) {
	if err := a.vault.Refresh(ctx); err != nil {
		a.reportError(ctx, err)
		return
	}
	if query == "" {
		a.renderEntries(a.vault.SortedByTitle())
		return
	}
	a.renderEntries(a.vault.Filter(query))
}

func (a *App) add(ctx context.Context) {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	url, err := getSimpleText(a.reader, "URL (optional)", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}

	gen, err := getSimpleText(a.reader, "Generate a random password? (y/N)", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}

	var secret string
	if strings.EqualFold(gen, "y") {
		secret, err = generatePassword(16)
		if err != nil {
			a.reportError(ctx, err)
			return
		}
		fmt.Fprintf(a.out, "Generated: %s\n", secret)
	} else {
		secret, err = getPassword(a.out, "Password")
		if err != nil {
			a.reportError(ctx, err)
			return
		}
	}

	entry, err := a.vault.Create(ctx, models.NewCredential{
		Title:    title,
		URL:      url,
		Username: username,
		Secret:   secret,
	})
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "Added %q (id %d).\n", entry.Title, entry.ID)
}

func (a *App) show(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return
	}
	entry, ok := a.vault.Get(id)
	if !ok {
		fmt.Fprintln(a.out, "Not found. It may have been deleted.")
		return
	}

	fmt.Fprintf(a.out, "ID:       %d\n", entry.ID)
	fmt.Fprintf(a.out, "Title:    %s\n", entry.Title)
	fmt.Fprintf(a.out, "Username: %s\n", entry.Username)
	if entry.URL != "" {
		fmt.Fprintf(a.out, "URL:      %s\n", entry.URL)
	}
	if entry.Content != "" {
		fmt.Fprintf(a.out, "Notes:\n%s\n", entry.Content)
	}
	fmt.Fprintln(a.out, "Password: ******** (use 'reveal' or 'copy')")
}

// copySecret decrypts the entry's secret on demand and puts it on the
// system clipboard. The plaintext is never kept in memory afterwards.
func (a *App) copySecret(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: copy <id>")
		return
	}
	secret, err := a.vault.Decrypt(ctx, id)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if err := writeClipboard(secret); err != nil {
		a.log.Warn(ctx, "clipboard write failed", "error", err)
		fmt.Fprintln(a.out, "Could not access the clipboard. Use 'reveal' instead.")
		return
	}
	fmt.Fprintln(a.out, "Password copied to clipboard.")
}

func (a *App) revealSecret(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: reveal <id>")
		return
	}
	secret, err := a.vault.Decrypt(ctx, id)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "Password: %s\n", secret)
}

func (a *App) update(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: update <id>")
		return
	}
	entry, ok := a.vault.Get(id)
	if !ok {
		fmt.Fprintln(a.out, "Not found. It may have been deleted.")
		return
	}

	url, err := getSimpleText(a.reader, fmt.Sprintf("URL [%s]", entry.URL), a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if url == "" {
		url = entry.URL
	}

	content, err := GetMultiline(a.reader, "Notes (replaces the current body)", a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if content == "" {
		content = entry.Content
	}

	updated, err := a.vault.Update(ctx, id, models.CredentialPatch{Content: content, URL: url})
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "Updated %q.\n", updated.Title)
}

// delete asks for confirmation, then removes the entry optimistically. If
// the server rejects the delete the entry reappears where it was.
func (a *App) delete(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return
	}
	entry, ok := a.vault.Get(id)
	if !ok {
		fmt.Fprintln(a.out, "Not found. It may have been deleted.")
		return
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %q? (y/N)", entry.Title), a.out)
	if err != nil {
		a.reportError(ctx, err)
		return
	}
	if !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Cancelled.")
		return
	}

	if err := a.vault.Delete(ctx, id); err != nil {
		a.reportError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "Deleted %q.\n", entry.Title)
}
