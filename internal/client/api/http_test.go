package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/passguard/passguardctl/internal/common"
	"github.com/passguard/passguardctl/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, testLogger())
}

func TestSignIn_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/signin", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body["username"])
		require.Equal(t, "pw", body["password"])

		json.NewEncoder(w).Encode(map[string]any{"jwtToken": "tok", "is2faEnabled": true})
	}))

	result, err := c.SignIn(context.Background(), "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok", result.Token)
	require.True(t, result.Is2faEnabled)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.SignIn(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestSignIn_AccountLockedCarriesMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"message": "Account locked. Try again in 14 minutes."})
	}))

	_, err := c.SignIn(context.Background(), "alice", "pw")
	var locked *common.AccountLockedError
	require.ErrorAs(t, err, &locked)
	require.Equal(t, "Account locked. Try again in 14 minutes.", locked.Message)
}

func TestVerifyMfaLogin_FormEncoding(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify-mfa-login", r.URL.Path)
		require.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		require.NoError(t, r.ParseForm())
		require.Equal(t, "123456", r.PostFormValue("code"))
		require.Equal(t, "pending-tok", r.PostFormValue("jwtToken"))
	}))

	require.NoError(t, c.VerifyMfaLogin(context.Background(), "123456", "pending-tok"))
}

func TestVerifyMfaLogin_WrongCode(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := c.VerifyMfaLogin(context.Background(), "000000", "pending-tok")
	require.ErrorIs(t, err, common.ErrInvalidMfaCode)
}

func TestBearerTokenAttached(t *testing.T) {
	t.Parallel()

	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	c.SetTokenSource(staticToken("tok-123"))

	_, err := c.ListPasswords(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoBearerWhenAnonymous(t *testing.T) {
	t.Parallel()

	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	c.SetTokenSource(staticToken(""))

	_, err := c.ListPasswords(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, common.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, common.ErrForbidden},
		{"not found", http.StatusNotFound, common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			err := c.DeletePassword(context.Background(), 1)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestServerErrorCarriesMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"Message": "something broke"})
	}))

	err := c.DeletePassword(context.Background(), 1)
	var reqErr *common.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusInternalServerError, reqErr.Status)
	require.Contains(t, reqErr.Error(), "something broke")
}

func TestDecryptPassword_PlainText(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/passwords/decrypt/42", r.URL.Path)
		w.Write([]byte("s3cret"))
	}))

	secret, err := c.DecryptPassword(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "s3cret", secret)
}

func TestAuditLogsForCredential_Path(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audit/password/7", r.URL.Path)
		w.Write([]byte(`[{"id":1,"passwordId":7,"action":"UPDATE","username":"alice","timestamp":"2026-03-01T12:00:00"}]`))
	}))

	records, err := c.AuditLogsForCredential(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, int64(7), records[0].CredentialID)
	require.Equal(t, "alice", records[0].Actor)
	require.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), records[0].Timestamp.Time)
}

func TestUpdateUserRole_QueryParams(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/admin/update-role", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("userId"))
		require.Equal(t, "ROLE_ADMIN", r.URL.Query().Get("roleName"))
	}))

	require.NoError(t, c.UpdateUserRole(context.Background(), 5, "ROLE_ADMIN"))
}

func TestSetUserEnabled_QueryParams(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/update-enabled-status", r.URL.Path)
		require.Equal(t, "9", r.URL.Query().Get("userId"))
		require.Equal(t, "false", r.URL.Query().Get("enabled"))
	}))

	require.NoError(t, c.SetUserEnabled(context.Background(), 9, false))
}
